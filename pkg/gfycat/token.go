package gfycat

import (
	"time"

	"golang.org/x/oauth2"
)

// AuthToken is a bearer or refresh token with its absolute expiry.
type AuthToken struct {
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// IsExpired reports whether t is not in the future. The zero time is expired.
func IsExpired(t time.Time) bool {
	return isExpiredAt(t, time.Now())
}

func isExpiredAt(t, now time.Time) bool {
	return t.IsZero() || !t.After(now)
}

func (t AuthToken) expired(now time.Time) bool {
	return t.Token == "" || isExpiredAt(t.ExpiresAt, now)
}

// tokenPair is replaced as a whole on every grant.
type tokenPair struct {
	access  AuthToken
	refresh AuthToken
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type tokenResponse struct {
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
	ResourceOwner         string `json:"resource_owner"`
}

// pair converts a grant response. expires_in values are seconds.
func (r tokenResponse) pair(now time.Time) *tokenPair {
	return &tokenPair{
		access: AuthToken{
			Token:     r.AccessToken,
			ExpiresAt: now.Add(time.Duration(r.ExpiresIn) * time.Second),
		},
		refresh: AuthToken{
			Token:     r.RefreshToken,
			ExpiresAt: now.Add(time.Duration(r.RefreshTokenExpiresIn) * time.Second),
		},
	}
}

func (t AuthToken) oauth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: t.Token,
		TokenType:   "Bearer",
		Expiry:      t.ExpiresAt,
	}
}
