package gfycat

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

const (
	DefaultBaseURL        = "https://api.gfycat.com/v1"
	DefaultFiledropURL    = "https://filedrop.gfycat.com"
	DefaultImageUploadURL = "https://imageupload.gfycat.com"

	DefaultTimeout         = 2 * time.Minute
	DefaultPollInterval    = 250 * time.Millisecond
	DefaultMaxPollDuration = 10 * time.Minute
	DefaultPageDelay       = 250 * time.Millisecond
)

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithFiledropURL(u string) Option {
	return func(c *Client) { c.filedropURL = strings.TrimSuffix(u, "/") }
}

func WithImageUploadURL(u string) Option {
	return func(c *Client) { c.imageUploadURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient uses hc's transport and timeout underneath the client's own
// auth, logging and instrumentation layers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		c.baseTransport = hc.Transport
		if hc.Timeout > 0 {
			c.timeout = hc.Timeout
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFs sets the filesystem upload payloads are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) {
		if fs != nil {
			c.fs = fs
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxPollDuration bounds how long a private upload waits for encoding.
func WithMaxPollDuration(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.maxPollDuration = d
		}
	}
}

// WithPageDelay sets the delay GetAll* helpers use when called with a
// negative delay.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) { c.pageDelay = d }
}

// WithRegisterer registers the client's Prometheus collectors with reg.
// Without it the collectors are kept private to the client.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.registerer = reg }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
