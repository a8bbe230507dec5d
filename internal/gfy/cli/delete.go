package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [gfy-id...]",
	Aliases: []string{"rm"},
	Short:   "Delete gfycats",
	Long: `Delete gfycats you own.

Examples:
  gfy delete happycat              # Delete single gfycat
  gfy delete happycat sadfrog      # Delete multiple gfycats
  gfy delete happycat --force      # Skip confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

type deleteResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// confirm asks a yes/no question on stdin. JSON mode and --force skip it.
func confirm(force bool, format string, args ...any) bool {
	if force || jsonOutput {
		return true
	}
	printer.Printf(format+" [y/N] ", args...)
	reader := bufio.NewReader(stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	if !confirm(deleteForce, "Are you sure you want to delete %d gfycat(s)?", len(args)) {
		printer.Info("Cancelled")
		return nil
	}

	ctx := GetContext()
	return deleteEach(args, func(id string) (bool, error) {
		return apiClient.DeleteGfycat(ctx, id)
	})
}

// deleteEach runs del for every id and reports the failures together.
func deleteEach(ids []string, del func(id string) (bool, error)) error {
	var result *multierror.Error
	var failed int
	results := make([]deleteResult, 0, len(ids))

	for _, id := range ids {
		ok, err := del(id)
		if err == nil && !ok {
			err = fmt.Errorf("not deleted")
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			failed++
			results = append(results, deleteResult{ID: id, Error: err.Error()})
			printer.ItemFailed(id, err)
			continue
		}
		results = append(results, deleteResult{ID: id, OK: true})
		printer.Success("Deleted %s", id)
	}

	if jsonOutput {
		if err := printer.JSON(results); err != nil {
			return err
		}
	} else if len(ids) > 1 {
		printer.Summary(len(ids)-failed, failed)
	}
	return result.ErrorOrNil()
}
