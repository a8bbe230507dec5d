package gfycat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/gfy/internal/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	grantPassword = "password"
	grantRefresh  = "refresh"
)

// Credentials identify the API application and the account it acts for.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Session owns the access and refresh tokens of a Client. It is safe for
// concurrent use; callers that find the token expired at the same time share
// one grant request.
type Session struct {
	creds      Credentials
	tokenURL   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Collectors
	now        func() time.Time

	mu     sync.RWMutex
	tokens *tokenPair
	group  singleflight.Group
}

var _ oauth2.TokenSource = (*Session)(nil)

func (s *Session) current() *tokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

func (s *Session) store(p *tokenPair) {
	s.mu.Lock()
	s.tokens = p
	s.mu.Unlock()
}

// validateToken returns an access token that is not expired, running a
// refresh grant when the refresh token is still valid and a password grant
// otherwise.
func (s *Session) validateToken(ctx context.Context) (AuthToken, error) {
	p := s.current()
	now := s.now()

	switch {
	case p != nil && p.refresh.Token != "" && p.access.expired(now) && !p.refresh.expired(now):
		np, err := s.grant(ctx, grantRefresh, p)
		if err != nil {
			return AuthToken{}, err
		}
		return np.access, nil
	case p == nil || p.access.expired(now):
		np, err := s.grant(ctx, grantPassword, p)
		if err != nil {
			return AuthToken{}, err
		}
		return np.access, nil
	default:
		return p.access, nil
	}
}

// grant runs one grant, shared with any concurrent caller asking for the
// same grant type. seen is the pair the caller judged stale; when another
// grant has since stored a valid pair, that pair is returned instead.
func (s *Session) grant(ctx context.Context, kind string, seen *tokenPair) (*tokenPair, error) {
	ch := s.group.DoChan(kind, func() (any, error) {
		if p := s.current(); p != seen && p != nil && !p.access.expired(s.now()) {
			return p, nil
		}
		return s.requestGrant(context.WithoutCancel(ctx), kind)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*tokenPair), nil
	}
}

func (s *Session) requestGrant(ctx context.Context, kind string) (*tokenPair, error) {
	body := tokenRequest{
		GrantType:    kind,
		ClientID:     s.creds.ClientID,
		ClientSecret: s.creds.ClientSecret,
	}
	switch kind {
	case grantPassword:
		body.Username = s.creds.Username
		body.Password = s.creds.Password
	case grantRefresh:
		p := s.current()
		if p == nil {
			return nil, fmt.Errorf("refresh grant: no refresh token")
		}
		body.RefreshToken = p.refresh.Token
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.RecordTokenGrant(kind, "error")
		return nil, fmt.Errorf("%s grant: %w", kind, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	s.metrics.RecordTokenGrant(kind, strconv.Itoa(resp.StatusCode))
	if err != nil {
		return nil, fmt.Errorf("%s grant: read response: %w", kind, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GrantError{Grant: kind, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("%s grant: decode response: %w", kind, err)
	}
	if tr.AccessToken == "" {
		return nil, &GrantError{Grant: kind, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	p := tr.pair(s.now())
	s.store(p)
	s.logger.DebugContext(ctx, "gfycat token granted",
		"grant", kind,
		"access_expires_at", p.access.ExpiresAt,
		"refresh_expires_at", p.refresh.ExpiresAt,
	)
	return p, nil
}

// Authenticate runs a password grant regardless of the current tokens.
func (s *Session) Authenticate(ctx context.Context) error {
	_, err := s.grant(ctx, grantPassword, s.current())
	return err
}

// Refresh runs a refresh grant. It does nothing when there is no refresh
// token or the refresh token has expired.
func (s *Session) Refresh(ctx context.Context) error {
	p := s.current()
	if p == nil || p.refresh.expired(s.now()) {
		return nil
	}
	_, err := s.grant(ctx, grantRefresh, p)
	return err
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	return s.TokenContext(context.Background())
}

func (s *Session) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	t, err := s.validateToken(ctx)
	if err != nil {
		return nil, err
	}
	tok := t.oauth2()
	if p := s.current(); p != nil {
		tok.RefreshToken = p.refresh.Token
	}
	return tok, nil
}

// Tokens returns the current access and refresh tokens. Both are zero before
// the first grant.
func (s *Session) Tokens() (access, refresh AuthToken) {
	p := s.current()
	if p == nil {
		return AuthToken{}, AuthToken{}
	}
	return p.access, p.refresh
}

// Restore seeds the session with tokens saved from an earlier run.
func (s *Session) Restore(access, refresh AuthToken) {
	s.store(&tokenPair{access: access, refresh: refresh})
}

// Clear drops both tokens so the next request authenticates again.
func (s *Session) Clear() {
	s.store(nil)
}

// Username is the account the session authenticates as.
func (s *Session) Username() string {
	return s.creds.Username
}
