package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

const maxConsecutiveErrors = 5

// isAuthError reports whether err means the credentials were rejected.
func isAuthError(err error) bool {
	var grantErr *gfycat.GrantError
	return errors.As(err, &grantErr) || errors.Is(err, gfycat.ErrMissingCredentials)
}

var statusCmd = &cobra.Command{
	Use:   "status <gfy-name>",
	Short: "Check encoding status",
	Long: `Check the encoding status of an upload or import.

Examples:
  gfy status happycat            # Current state
  gfy status happycat --watch    # Watch until complete`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

var statusWatch bool

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Watch until complete")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	if statusWatch {
		return watchStatus(ctx, args[0])
	}

	st, err := apiClient.GetGfycatStatus(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if err := apiError("failed to get status", st.ResponseMeta); err != nil {
		return err
	}
	return printStatus(args[0], st)
}

func printStatus(name string, st *gfycat.GfycatStatus) error {
	if jsonOutput {
		return printer.JSON(st)
	}

	printer.Section("Encoding Status")
	printer.KeyValue("Name", name)
	printer.KeyValue("Task", string(st.Task))
	if st.Progress != "" {
		printer.KeyValue("Progress", st.Progress)
	}
	if st.GfyName != "" && st.GfyName != name {
		printer.KeyValue("Gfycat", st.GfyName)
	}
	if st.TaskError != nil {
		printer.KeyValue("Error", st.TaskError.String())
	}
	return nil
}

func watchStatus(ctx context.Context, name string) error {
	spinner := printer.Waiting(fmt.Sprintf("Watching %s...", name))

	ticker := time.NewTicker(cfg.GetPollInterval())
	defer ticker.Stop()

	timeout := time.After(cfg.GetTimeout("status_watch"))
	var consecutiveErrors int

	for {
		select {
		case <-ctx.Done():
			spinner.Finish()
			return ctx.Err()
		case <-timeout:
			spinner.Finish()
			return fmt.Errorf("%w: %s", gfycat.ErrPollTimeout, name)
		case <-ticker.C:
			st, err := apiClient.GetGfycatStatus(ctx, name)
			if err != nil {
				consecutiveErrors++

				if isAuthError(err) {
					spinner.Finish()
					return fmt.Errorf("authentication failed: %w", err)
				}

				spinner.Update(fmt.Sprintf("Status: error (%d/%d retries)", consecutiveErrors, maxConsecutiveErrors))

				if consecutiveErrors >= maxConsecutiveErrors {
					spinner.Finish()
					return fmt.Errorf("failed after %d consecutive errors: %w", consecutiveErrors, err)
				}
				continue
			}
			consecutiveErrors = 0

			desc := fmt.Sprintf("Status: %s", st.Task)
			if st.Progress != "" {
				desc += " " + st.Progress
			}
			spinner.Update(desc)

			if st.Terminal() {
				spinner.Finish()
				if err := printStatus(name, st); err != nil {
					return err
				}
				if st.Task == gfycat.TaskError {
					return fmt.Errorf("%w: %s", gfycat.ErrEncodingFailed, st.TaskError.String())
				}
				return nil
			}
		}
	}
}
