package gfycat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/gfy/internal/metrics"
	"github.com/abdul-hamid-achik/gfy/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

// Client is a Gfycat API client. It is safe for concurrent use.
type Client struct {
	baseURL        string
	filedropURL    string
	imageUploadURL string
	userAgent      string

	timeout         time.Duration
	pollInterval    time.Duration
	maxPollDuration time.Duration
	pageDelay       time.Duration

	baseTransport  http.RoundTripper
	httpClient     *http.Client
	transferClient *http.Client
	session        *Session
	registerer     prometheus.Registerer
	metrics        *metrics.Collectors
	logger         *slog.Logger
	fs             afero.Fs
	now            func() time.Time
}

// New returns a client for the given credentials. ClientID and ClientSecret
// are required; no request is made until the first operation.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		baseURL:         DefaultBaseURL,
		filedropURL:     DefaultFiledropURL,
		imageUploadURL:  DefaultImageUploadURL,
		userAgent:       "gfy-go",
		timeout:         DefaultTimeout,
		pollInterval:    DefaultPollInterval,
		maxPollDuration: DefaultMaxPollDuration,
		pageDelay:       DefaultPageDelay,
		logger:          slog.New(slog.DiscardHandler),
		fs:              afero.NewOsFs(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.metrics = metrics.New(c.registerer)
	c.session = &Session{
		creds:    creds,
		tokenURL: c.baseURL + tokenPath,
		logger:   c.logger,
		metrics:  c.metrics,
		now:      c.now,
	}

	var filedropHost string
	if u, err := url.Parse(c.filedropURL); err == nil {
		filedropHost = u.Host
	}

	// auth -> logging -> metrics -> otel -> network
	var rt http.RoundTripper = tracing.Transport(c.baseTransport)
	rt = c.metrics.InstrumentRoundTripper(rt)
	rt = &loggingTransport{next: rt, logger: c.logger}
	rt = &authTransport{next: rt, session: c.session, filedropHost: filedropHost}

	c.httpClient = &http.Client{Transport: rt, Timeout: c.timeout}
	// File transfers are bounded by the caller's context only.
	c.transferClient = &http.Client{Transport: rt}
	c.session.httpClient = c.httpClient

	return c, nil
}

// Session exposes the token state of the client.
func (c *Client) Session() *Session {
	return c.session
}

// PageDelay is the delay used by GetAll* helpers called with a negative delay.
func (c *Client) PageDelay() time.Duration {
	return c.pageDelay
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// send executes req and reads the whole body. Only a 5xx status is turned
// into an error.
func (c *Client) send(req *http.Request) (int, []byte, error) {
	return c.sendWith(c.httpClient, req)
}

func (c *Client) sendWith(hc *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s %s: read response: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 500 {
		return resp.StatusCode, raw, &ServerError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}
	return resp.StatusCode, raw, nil
}

// do sends a JSON request to path on the API host and decodes the response
// into out. The response status is recorded on out when it embeds
// ResponseMeta.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	return c.doURL(ctx, method, c.baseURL+path, in, out)
}

func (c *Client) doURL(ctx context.Context, method, rawURL string, in, out any) (int, error) {
	req, err := c.newRequest(ctx, method, rawURL, in)
	if err != nil {
		return 0, err
	}
	status, raw, err := c.send(req)
	if err != nil {
		return status, err
	}
	if out == nil {
		return status, nil
	}

	meta, _ := out.(statusSetter)
	if meta != nil {
		meta.setStatus(status)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return status, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if status >= 400 {
			if meta != nil {
				meta.setError(strings.TrimSpace(string(raw)))
			}
			return status, nil
		}
		return status, fmt.Errorf("%s %s: decode response: %w", method, req.URL.Path, err)
	}
	return status, nil
}

// ok sends a request whose only result is whether the status was below 400.
func (c *Client) ok(ctx context.Context, method, path string, in any) (bool, error) {
	status, err := c.do(ctx, method, path, in, nil)
	if err != nil {
		return false, err
	}
	return status < 400, nil
}

// valueBody is the {value} body of the PUT field mutations.
type valueBody struct {
	Value any `json:"value"`
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
