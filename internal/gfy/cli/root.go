package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/gfy/internal/gfy/config"
	"github.com/abdul-hamid-achik/gfy/internal/gfy/output"
	"github.com/abdul-hamid-achik/gfy/internal/gfy/version"
	"github.com/abdul-hamid-achik/gfy/internal/logger"
	"github.com/abdul-hamid-achik/gfy/internal/metrics"
	"github.com/abdul-hamid-achik/gfy/internal/tracing"
	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	quietMode  bool
	debugMode  bool
	noColor    bool
	metricsOut string
	cfg        *config.Config
	apiClient  gfycat.API
	printer    *output.Printer

	runCtx        context.Context
	shutdownTrace func(context.Context) error
	registry      *prometheus.Registry
)

// Swapped out in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
	fsys   afero.Fs  = afero.NewOsFs()

	newClient = defaultClient
)

// skipClient marks commands that run without an API client.
const skipClient = "skip-client"

var errNotAuthenticated = errors.New("not authenticated: run 'gfy auth login' first")

var rootCmd = &cobra.Command{
	Use:   "gfy",
	Short: "gfy - upload, organize, and discover gfycats from the terminal",
	Long: `gfy is a command-line client for the Gfycat API.

Upload videos, manage your gfycats and collections, and browse trending
content from the terminal.

Get started:
  gfy auth login --client-id ID --client-secret SECRET --username me
  gfy upload clip.mp4 --title "My clip"
  gfy list`,
	Version:            version.Full(),
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON (for scripting)")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log HTTP traffic to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-file", "", "Write client metrics to this file when the command ends")

	rootCmd.SetVersionTemplate("gfy version {{.Version}}\n")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(likesCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(followingCmd)
	rootCmd.AddCommand(followersCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" {
		return nil
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	printer = output.New(
		output.WithJSON(jsonOutput),
		output.WithQuiet(quietMode),
		output.WithNoColor(noColor),
		output.WithOutput(stdout),
		output.WithErrOutput(stderr),
	)

	level := cfg.Log.Level
	if debugMode {
		level = "debug"
	}
	log := logger.InitWithOptions(logger.Options{Level: level, Format: cfg.Log.Format, Output: stderr})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithInvocationID(logger.WithLogger(ctx, log), uuid.NewString())
	runCtx = ctx

	shutdownTrace, err = tracing.Init(ctx, &tracing.Config{
		ServiceVersion: version.Short(),
		OTLPEndpoint:   cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		Enabled:        cfg.Tracing.Enabled,
		SampleRate:     cfg.Tracing.SampleRate,
	})
	if err != nil {
		return err
	}

	registry = prometheus.NewRegistry()

	if cmd.Annotations[skipClient] == "true" {
		return nil
	}
	if !cfg.HasCredentials() {
		return errNotAuthenticated
	}
	apiClient, err = newClient(cfg)
	if err != nil {
		return err
	}
	if cfg.Tokens != nil {
		if s := apiClient.Session(); s != nil {
			s.Restore(cfg.Tokens.Access, cfg.Tokens.Refresh)
		}
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	log := logger.FromContext(ctx)

	if apiClient != nil && cmd.Annotations[skipClient] != "true" {
		if err := saveTokens(apiClient.Session()); err != nil {
			log.Warn("failed to cache tokens", "error", err)
		}
		if err := exportMetrics(ctx); err != nil {
			log.Warn("failed to export metrics", "error", err)
		}
	}

	if shutdownTrace != nil {
		if err := shutdownTrace(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}
	return nil
}

func defaultClient(c *config.Config) (gfycat.API, error) {
	opts := []gfycat.Option{
		gfycat.WithBaseURL(c.APIURL),
		gfycat.WithTimeout(c.GetTimeout("http")),
		gfycat.WithMaxPollDuration(c.GetTimeout("finalize")),
		gfycat.WithPollInterval(c.GetPollInterval()),
		gfycat.WithPageDelay(c.GetPageDelay()),
		gfycat.WithUserAgent("gfy/" + version.Short()),
		gfycat.WithLogger(logger.FromContext(GetContext())),
		gfycat.WithFs(fsys),
	}
	if registry != nil {
		opts = append(opts, gfycat.WithRegisterer(registry))
	}
	if c.FiledropURL != "" {
		opts = append(opts, gfycat.WithFiledropURL(c.FiledropURL))
	}
	if c.ImageUploadURL != "" {
		opts = append(opts, gfycat.WithImageUploadURL(c.ImageUploadURL))
	}
	return gfycat.New(c.Credentials(), opts...)
}

// exportMetrics writes the run's client metrics to the textfile named by
// --metrics-file or metrics.textfile and pushes them to metrics.pushgateway.
func exportMetrics(ctx context.Context) error {
	if registry == nil || cfg == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	if s, err := metrics.Summarize(registry); err == nil && s.Requests > 0 {
		log.Debug("gfycat requests", "count", s.Requests, "p95", s.P95)
	}

	var result *multierror.Error
	path := metricsOut
	if path == "" {
		path = cfg.Metrics.Textfile
	}
	if path != "" {
		if err := metrics.WriteTextfile(path, registry); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if cfg.Metrics.Pushgateway != "" {
		if err := metrics.Push(context.WithoutCancel(ctx), cfg.Metrics.Pushgateway, "gfy", registry); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// saveTokens writes the session's tokens to the config when they changed.
func saveTokens(s *gfycat.Session) error {
	if s == nil || cfg == nil {
		return nil
	}
	access, refresh := s.Tokens()
	if access.Token == "" {
		return nil
	}
	if cfg.Tokens != nil && sameToken(cfg.Tokens.Access, access) && sameToken(cfg.Tokens.Refresh, refresh) {
		return nil
	}
	cfg.SetTokens(access, refresh)
	return cfg.Save()
}

// GetContext returns the context of the running command.
func GetContext() context.Context {
	if runCtx != nil {
		return runCtx
	}
	return context.Background()
}

func requireAuth() error {
	if !cfg.IsAuthenticated() {
		return errNotAuthenticated
	}
	return nil
}

func sameToken(a, b gfycat.AuthToken) bool {
	return a.Token == b.Token && a.ExpiresAt.Equal(b.ExpiresAt)
}

// allDelay is the pause between pages for the --all variants.
func allDelay() time.Duration {
	return apiClient.PageDelay()
}
