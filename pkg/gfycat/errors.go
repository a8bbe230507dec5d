package gfycat

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("gfycat: client id and secret are required")
	ErrRegister           = errors.New("gfycat: register upload failed")
	ErrTransfer           = errors.New("gfycat: file transfer failed")
	ErrEncodingFailed     = errors.New("gfycat: encoding failed")
	ErrPollTimeout        = errors.New("gfycat: status polling timed out")
)

// ServerError is returned for any response with a 5xx status.
type ServerError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gfycat: %s %s: server error %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body, 200))
}

// StatusError is returned when an operation that cannot surface a 4xx
// response to its caller receives one.
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gfycat: %s: status %d: %s", e.Operation, e.StatusCode, truncate(e.Message, 200))
}

// GrantError is returned when the token endpoint rejects a grant.
type GrantError struct {
	Grant      string
	StatusCode int
	Body       string
}

func (e *GrantError) Error() string {
	return fmt.Sprintf("gfycat: %s grant rejected with status %d: %s", e.Grant, e.StatusCode, truncate(e.Body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
