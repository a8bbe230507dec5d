package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ClientID       string        `yaml:"client_id,omitempty"`
	ClientSecret   string        `yaml:"client_secret,omitempty"`
	Username       string        `yaml:"username,omitempty"`
	Password       string        `yaml:"password,omitempty"`
	APIURL         string        `yaml:"api_url,omitempty"`
	FiledropURL    string        `yaml:"filedrop_url,omitempty"`
	ImageUploadURL string        `yaml:"image_upload_url,omitempty"`
	PageDelay      string        `yaml:"page_delay,omitempty"`
	PollInterval   string        `yaml:"poll_interval,omitempty"`
	Timeouts       TimeoutConfig `yaml:"timeouts,omitempty"`
	Tracing        TracingConfig `yaml:"tracing,omitempty"`
	Metrics        MetricsConfig `yaml:"metrics,omitempty"`
	Log            LogConfig     `yaml:"log,omitempty"`
	Tokens         *TokenCache   `yaml:"tokens,omitempty"`
}

// TimeoutConfig holds configurable timeout durations for various operations.
// All durations are specified as strings parseable by time.ParseDuration (e.g., "5m", "30s", "1h").
type TimeoutConfig struct {
	HTTP        string `yaml:"http,omitempty"`         // HTTP client timeout (default: 2m)
	Finalize    string `yaml:"finalize,omitempty"`     // Private upload encoding wait (default: 10m)
	StatusWatch string `yaml:"status_watch,omitempty"` // gfy status --watch (default: 10m)
}

type TracingConfig struct {
	Enabled    bool    `yaml:"enabled,omitempty"`
	Endpoint   string  `yaml:"endpoint,omitempty"`
	Insecure   bool    `yaml:"insecure,omitempty"`
	SampleRate float64 `yaml:"sample_rate,omitempty"`
}

// MetricsConfig names where the client metrics of each run are exported.
// Both are optional.
type MetricsConfig struct {
	Textfile    string `yaml:"textfile,omitempty"`    // node_exporter textfile collector path
	Pushgateway string `yaml:"pushgateway,omitempty"` // Pushgateway base URL
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// TokenCache keeps the last grant between runs so every command does not
// start with a password grant.
type TokenCache struct {
	Access  gfycat.AuthToken `yaml:"access"`
	Refresh gfycat.AuthToken `yaml:"refresh"`
}

const (
	DefaultPageDelay    = 250 * time.Millisecond
	DefaultPollInterval = 2 * time.Second

	// Environment variable names for configuration overrides
	EnvConfig       = "GFY_CONFIG"
	EnvClientID     = "GFYCAT_CLIENT_ID"
	EnvClientSecret = "GFYCAT_CLIENT_SECRET"
	EnvUsername     = "GFYCAT_USERNAME"
	EnvPassword     = "GFYCAT_PASSWORD"
	EnvAPIURL       = "GFYCAT_API_URL"

	// Default timeout durations
	DefaultHTTPTimeout        = 2 * time.Minute
	DefaultFinalizeTimeout    = 10 * time.Minute
	DefaultStatusWatchTimeout = 10 * time.Minute
)

var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{
	"client_id", "client_secret", "username", "password",
	"api_url", "filedrop_url", "image_upload_url",
	"page_delay", "poll_interval",
	"timeouts.http", "timeouts.finalize", "timeouts.status_watch",
	"tracing.enabled", "tracing.endpoint", "tracing.insecure", "tracing.sample_rate",
	"metrics.textfile", "metrics.pushgateway",
	"log.level", "log.format",
}

var osFs afero.Fs = afero.NewOsFs()

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gfy"), nil
}

// Path is the config file location; GFY_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaults() *Config {
	return &Config{APIURL: gfycat.DefaultBaseURL}
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		cfg := defaults()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFrom(osFs, path)
}

// LoadFrom reads the config at path on fsys. A missing file yields the
// defaults. Environment variables take precedence over the file.
func LoadFrom(fsys afero.Fs, path string) (*Config, error) {
	cfg := defaults()

	data, err := afero.ReadFile(fsys, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if cfg.APIURL == "" {
		cfg.APIURL = gfycat.DefaultBaseURL
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvClientID:     &c.ClientID,
		EnvClientSecret: &c.ClientSecret,
		EnvUsername:     &c.Username,
		EnvPassword:     &c.Password,
		EnvAPIURL:       &c.APIURL,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(osFs, path)
}

func (c *Config) SaveTo(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0600)
}

func (c *Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (c *Config) IsAuthenticated() bool {
	return c.HasCredentials() && c.Username != "" && c.Password != ""
}

// Credentials converts the config into client credentials.
func (c *Config) Credentials() gfycat.Credentials {
	return gfycat.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Username:     c.Username,
		Password:     c.Password,
	}
}

func (c *Config) SetTokens(access, refresh gfycat.AuthToken) {
	if access.Token == "" {
		c.Tokens = nil
		return
	}
	c.Tokens = &TokenCache{Access: access, Refresh: refresh}
}

func (c *Config) ClearAuth() {
	c.Username = ""
	c.Password = ""
	c.Tokens = nil
}

// GetTimeout returns the configured timeout for the given operation, or the default if not set.
// Valid names: "http", "finalize", "status_watch"
func (c *Config) GetTimeout(name string) time.Duration {
	var configValue string
	var defaultValue time.Duration

	switch name {
	case "http":
		configValue = c.Timeouts.HTTP
		defaultValue = DefaultHTTPTimeout
	case "finalize":
		configValue = c.Timeouts.Finalize
		defaultValue = DefaultFinalizeTimeout
	case "status_watch":
		configValue = c.Timeouts.StatusWatch
		defaultValue = DefaultStatusWatchTimeout
	default:
		return DefaultHTTPTimeout
	}
	return parseDuration(configValue, defaultValue)
}

func (c *Config) GetPageDelay() time.Duration {
	return parseDuration(c.PageDelay, DefaultPageDelay)
}

func (c *Config) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, DefaultPollInterval)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Set assigns a single key from `gfy config set`. Durations and numbers are
// validated before they are stored.
func (c *Config) Set(key, value string) error {
	switch key {
	case "client_id":
		c.ClientID = value
	case "client_secret":
		c.ClientSecret = value
	case "username":
		c.Username = value
	case "password":
		c.Password = value
	case "api_url":
		c.APIURL = value
	case "filedrop_url":
		c.FiledropURL = value
	case "image_upload_url":
		c.ImageUploadURL = value
	case "page_delay", "poll_interval", "timeouts.http", "timeouts.finalize", "timeouts.status_watch":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "page_delay":
			c.PageDelay = value
		case "poll_interval":
			c.PollInterval = value
		case "timeouts.http":
			c.Timeouts.HTTP = value
		case "timeouts.finalize":
			c.Timeouts.Finalize = value
		case "timeouts.status_watch":
			c.Timeouts.StatusWatch = value
		}
	case "tracing.enabled", "tracing.insecure":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "tracing.enabled" {
			c.Tracing.Enabled = b
		} else {
			c.Tracing.Insecure = b
		}
	case "tracing.endpoint":
		c.Tracing.Endpoint = value
	case "tracing.sample_rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("%s: must be a number between 0 and 1", key)
		}
		c.Tracing.SampleRate = f
	case "metrics.textfile":
		c.Metrics.Textfile = value
	case "metrics.pushgateway":
		if value != "" {
			if u, err := url.Parse(value); err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%s: must be an absolute URL", key)
			}
		}
		c.Metrics.Pushgateway = value
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "log.format":
		c.Log.Format = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Redacted returns a copy safe to print: secrets are masked and cached
// tokens dropped.
func (c *Config) Redacted() *Config {
	out := *c
	out.ClientSecret = mask(c.ClientSecret)
	out.Password = mask(c.Password)
	out.Tokens = nil
	return &out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
