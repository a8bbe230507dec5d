package gfycat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/afero"
)

const profileImageHost = "profileimageupload.gfycat.com/"

// DoesUserExist checks a username with a HEAD request.
func (c *Client) DoesUserExist(ctx context.Context, username string) (UserExistence, error) {
	status, err := c.do(ctx, http.MethodHead, "/users/"+escape(username), nil, nil)
	if err != nil {
		return UserInvalid, err
	}
	switch {
	case status == http.StatusNotFound:
		return UserNotFound, nil
	case status >= 200 && status < 300:
		return UserExists, nil
	default:
		return UserInvalid, nil
	}
}

func (c *Client) GetUserDetails(ctx context.Context, username string) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodGet, "/users/"+escape(username), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetAuthenticatedUserDetails(ctx context.Context) (*AuthenticatedUser, error) {
	var u AuthenticatedUser
	if _, err := c.do(ctx, http.MethodGet, "/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type patchRequest struct {
	Operations []PatchOperation `json:"operations"`
}

func (u UserDetailsUpdate) operations() []PatchOperation {
	var ops []PatchOperation
	addOrRemove := func(path string, v *string, remove bool) {
		switch {
		case v != nil && *v != "":
			ops = append(ops, PatchOperation{Op: "add", Path: path, Value: *v})
		case remove:
			ops = append(ops, PatchOperation{Op: "remove", Path: path})
		}
	}
	addOrRemove("/name", u.Name, u.RemoveName)
	addOrRemove("/email", u.Email, u.RemoveEmail)
	addOrRemove("/password", u.Password, false)
	addOrRemove("/profile_url", u.ProfileURL, u.RemoveProfileURL)
	addOrRemove("/description", u.Description, u.RemoveDescription)
	addOrRemove("/upload_notices", u.UploadNotices, false)

	if u.DomainWhitelist != nil {
		ops = append(ops, PatchOperation{Op: "replace", Path: "/domain_whitelist", Value: u.DomainWhitelist})
	}
	if u.GeoWhitelist != nil {
		ops = append(ops, PatchOperation{Op: "replace", Path: "/geo_whitelist", Value: u.GeoWhitelist})
	}
	if u.IframeImageVisible != nil {
		ops = append(ops, PatchOperation{Op: "replace", Path: "/iframe_image_visible", Value: *u.IframeImageVisible})
	}
	return ops
}

// UpdateUserDetails patches /me. It returns false without a request when the
// update is empty.
func (c *Client) UpdateUserDetails(ctx context.Context, update UserDetailsUpdate) (bool, error) {
	ops := update.operations()
	if len(ops) == 0 {
		return false, nil
	}
	return c.ok(ctx, http.MethodPatch, "/me", patchRequest{Operations: ops})
}

func (u AccountInfoUpdate) operations() []PatchOperation {
	var ops []PatchOperation
	field := func(path string, v *string, remove bool) {
		switch {
		case v != nil:
			ops = append(ops, PatchOperation{Op: "add", Path: path, Value: *v})
		case remove:
			ops = append(ops, PatchOperation{Op: "remove", Path: path})
		}
	}
	field("/description", u.Description, u.RemoveDescription)
	field("/name", u.Name, u.RemoveName)
	field("/profileUrl", u.ProfileURL, u.RemoveProfileURL)
	return ops
}

// UpdateAccountInfo adds or removes the public account fields. It returns
// false without a request when the update is empty.
func (c *Client) UpdateAccountInfo(ctx context.Context, update AccountInfoUpdate) (bool, error) {
	ops := update.operations()
	if len(ops) == 0 {
		return false, nil
	}
	return c.ok(ctx, http.MethodPatch, "/me", patchRequest{Operations: ops})
}

// UploadUserProfileImage requests an upload ticket and PUTs the image file
// to the image upload host.
func (c *Client) UploadUserProfileImage(ctx context.Context, path string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/me/profile_image_url", struct{}{})
	if err != nil {
		return false, err
	}
	status, raw, err := c.send(req)
	if err != nil {
		return false, err
	}
	if status >= 400 {
		return false, nil
	}

	ticket := profileTicket(raw)
	if ticket == "" {
		c.logger.DebugContext(ctx, "no profile image upload ticket", "response", truncate(string(raw), 200))
		return false, nil
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return false, fmt.Errorf("read profile image: %w", err)
	}
	put, err := http.NewRequestWithContext(ctx, http.MethodPut, c.imageUploadURL+"/"+ticket, bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	put.ContentLength = int64(len(data))
	put.Header.Set("User-Agent", c.userAgent)

	status, _, err = c.send(put)
	if err != nil {
		return false, err
	}
	return status < 400, nil
}

// profileTicket extracts the ticket from the upload URL the API returns,
// either as a JSON string or as plain text.
func profileTicket(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	_, ticket, found := strings.Cut(strings.TrimSpace(s), profileImageHost)
	if !found {
		return ""
	}
	return ticket
}

// IsEmailVerified reports whether the account email is verified. The API
// answers 404 when it is not.
func (c *Client) IsEmailVerified(ctx context.Context) (bool, error) {
	status, err := c.do(ctx, http.MethodGet, "/me/email_verified", nil, nil)
	if err != nil {
		return false, err
	}
	return status != http.StatusNotFound, nil
}

// SendEmailVerificationRequest emails a verification link, even when the
// address is already verified.
func (c *Client) SendEmailVerificationRequest(ctx context.Context) (bool, error) {
	return c.ok(ctx, http.MethodPost, "/me/send_verification_email", struct{}{})
}

func (c *Client) SendPasswordResetEmail(ctx context.Context, usernameOrEmail string) (bool, error) {
	body := struct {
		Value  string `json:"value"`
		Action string `json:"action"`
	}{Value: usernameOrEmail, Action: "send_password_reset_email"}
	return c.ok(ctx, http.MethodPatch, "/users", body)
}
