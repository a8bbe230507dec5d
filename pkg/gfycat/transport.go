package gfycat

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	tokenPath     = "/oauth/token"
	maxLoggedBody = 64 << 10
)

// authTransport attaches the bearer token to API requests.
type authTransport struct {
	next         http.RoundTripper
	session      *Session
	filedropHost string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.needsAuth(req.URL) {
		return t.next.RoundTrip(req)
	}
	token, err := t.session.validateToken(req.Context())
	if err != nil {
		return nil, err
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token.Token)
	return t.next.RoundTrip(req)
}

// needsAuth is false for the token endpoint and the file drop host.
func (t *authTransport) needsAuth(u *url.URL) bool {
	if strings.HasSuffix(u.Path, tokenPath) {
		return false
	}
	if strings.Contains(u.Host, "filedrop") || (t.filedropHost != "" && u.Host == t.filedropHost) {
		return false
	}
	return true
}

// loggingTransport logs every request before dispatch and every response
// after. Response bodies are logged as compact JSON when they parse; the body
// handed back to the caller is unchanged.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	t.logger.DebugContext(ctx, "gfycat request", "method", req.Method, "path", req.URL.Path)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.DebugContext(ctx, "gfycat request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, err
	}

	if !t.logger.Enabled(ctx, slog.LevelDebug) {
		return resp, nil
	}
	attrs := []any{"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode}
	if strings.HasSuffix(req.URL.Path, tokenPath) {
		attrs = append(attrs, "body", "[redacted]")
	} else if body := peekJSON(resp); body != "" {
		attrs = append(attrs, "body", body)
	}
	t.logger.DebugContext(ctx, "gfycat response", attrs...)
	return resp, nil
}

type replayBody struct {
	io.Reader
	io.Closer
}

// peekJSON returns the compacted JSON body of resp, or "" when the body is
// empty, too large, or not JSON. resp.Body is replaced with an equivalent
// reader.
func peekJSON(resp *http.Response) string {
	if resp.Body == nil || resp.Body == http.NoBody {
		return ""
	}
	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody+1))
	resp.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(buf), resp.Body), Closer: resp.Body}
	if err != nil || len(buf) == 0 || len(buf) > maxLoggedBody {
		return ""
	}
	var out bytes.Buffer
	if err := json.Compact(&out, buf); err != nil {
		return ""
	}
	return out.String()
}
