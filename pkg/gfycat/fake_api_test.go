package gfycat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Host          string
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentLength int64
	Body          []byte
}

// fakeAPI is an in-process Gfycat API with a token endpoint, a file drop
// host and an image upload host.
type fakeAPI struct {
	t *testing.T

	api      *http.ServeMux
	filedrop *http.ServeMux
	image    *http.ServeMux

	apiServer      *httptest.Server
	filedropServer *httptest.Server
	imageServer    *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest

	passwordGrants atomic.Int32
	refreshGrants  atomic.Int32
	grantDelay     atomic.Int64
	rejectGrants   atomic.Bool
	accessTTL      atomic.Int64
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:        t,
		api:      http.NewServeMux(),
		filedrop: http.NewServeMux(),
		image:    http.NewServeMux(),
	}
	f.accessTTL.Store(3600)
	f.api.HandleFunc("POST /oauth/token", f.token)

	f.apiServer = httptest.NewServer(f.recorder("api", f.api))
	f.filedropServer = httptest.NewServer(f.recorder("filedrop", f.filedrop))
	f.imageServer = httptest.NewServer(f.recorder("image", f.image))
	t.Cleanup(func() {
		f.apiServer.Close()
		f.filedropServer.Close()
		f.imageServer.Close()
	})
	return f
}

func (f *fakeAPI) recorder(host string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Host:          host,
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentLength: r.ContentLength,
			Body:          body,
		})
		f.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errorMessage": err.Error()})
		return
	}
	if d := time.Duration(f.grantDelay.Load()); d > 0 {
		time.Sleep(d)
	}

	var n int32
	switch req.GrantType {
	case grantPassword:
		n = f.passwordGrants.Add(1)
	case grantRefresh:
		n = f.refreshGrants.Add(1)
	}
	if f.rejectGrants.Load() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errorMessage": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		TokenType:             "bearer",
		AccessToken:           fmt.Sprintf("%s-access-%d", req.GrantType, n),
		ExpiresIn:             f.accessTTL.Load(),
		RefreshToken:          fmt.Sprintf("%s-refresh-%d", req.GrantType, n),
		RefreshTokenExpiresIn: 86400,
	})
}

func (f *fakeAPI) client(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(f.apiServer.URL),
		WithFiledropURL(f.filedropServer.URL),
		WithImageUploadURL(f.imageServer.URL),
		WithPageDelay(0),
		WithPollInterval(time.Millisecond),
		WithFs(afero.NewMemMapFs()),
	}
	c, err := New(Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "alice",
		Password:     "hunter2",
	}, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

// calls returns the recorded requests, excluding token grants.
func (f *fakeAPI) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.requests {
		if r.Path == tokenPath {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeAPI) all() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeAPI) last() recordedRequest {
	calls := f.calls()
	require.NotEmpty(f.t, calls)
	return calls[len(calls)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func gfys(names ...string) []Gfycat {
	out := make([]Gfycat, len(names))
	for i, n := range names {
		out[i] = Gfycat{GfyID: n, GfyName: n}
	}
	return out
}

func strPtr(s string) *string { return &s }
