package cli

import (
	"fmt"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List gfycats",
	Long: `List your gfycats or another user's public gfycats.

Examples:
  gfy list                       # Your most recent gfycats
  gfy list --count 100           # A bigger page
  gfy list --cursor abc          # The next page
  gfy list --user someone --all  # Every public gfycat of a user
  gfy list --all --json | jq '.[].gfyName'`,
	RunE: runList,
}

var (
	listUser   string
	listAll    bool
	listCount  int
	listCursor string
)

func init() {
	addPageFlags(listCmd, &listAll, &listCount, &listCursor)
	listCmd.Flags().StringVar(&listUser, "user", "", "List this user's public gfycats")
}

// addPageFlags registers the --all, --count and --cursor flags shared by the
// list commands.
func addPageFlags(cmd *cobra.Command, all *bool, count *int, cursor *string) {
	cmd.Flags().BoolVar(all, "all", false, "Fetch every page")
	cmd.Flags().IntVar(count, "count", 30, "Items per page")
	cmd.Flags().StringVar(cursor, "cursor", "", "Cursor of the page to fetch")
	cmd.MarkFlagsMutuallyExclusive("all", "cursor")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	if listAll {
		var items []gfycat.Gfycat
		var err error
		if listUser != "" {
			items, err = apiClient.GetAllUserGfycats(ctx, listUser, allDelay())
		} else {
			items, err = apiClient.GetAllMyGfycats(ctx, allDelay())
		}
		if err != nil {
			return fmt.Errorf("failed to list gfycats: %w", err)
		}
		return printGfycats(items, "")
	}

	opts := gfycat.PageOptions{Count: listCount, Cursor: listCursor}
	var resp *gfycat.GfycatsResponse
	var err error
	if listUser != "" {
		resp, err = apiClient.GetUserGfycats(ctx, listUser, opts)
	} else {
		resp, err = apiClient.GetMyGfycats(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to list gfycats: %w", err)
	}
	if err := apiError("failed to list gfycats", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	return printGfycats(resp.Gfycats, resp.Cursor)
}

func printGfycats(items []gfycat.Gfycat, cursor string) error {
	if jsonOutput {
		if items == nil {
			items = []gfycat.Gfycat{}
		}
		return printer.JSON(items)
	}
	if len(items) == 0 {
		printer.Info("No gfycats found")
		return nil
	}
	renderGfycats(items)
	moreHint(cursor)
	return nil
}
