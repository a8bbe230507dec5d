package cli

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search gfycats",
	Long: `Search all public gfycats, or only your own with --mine.

Examples:
  gfy search "cute cat"
  gfy search cat --mine --all`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchMine   bool
	searchAll    bool
	searchCount  int
	searchCursor string
)

func init() {
	addPageFlags(searchCmd, &searchAll, &searchCount, &searchCursor)
	searchCmd.Flags().BoolVar(&searchMine, "mine", false, "Search only your gfycats")
}

type searchOutput struct {
	Gfycats []gfycat.Gfycat `json:"gfycats"`
	Related []gfycat.Gfycat `json:"related,omitempty"`
	Found   int             `json:"found"`
	Cursor  string          `json:"cursor,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	ctx := GetContext()

	var out searchOutput
	switch {
	case searchAll && !searchMine:
		return fmt.Errorf("--all is only supported with --mine")
	case searchAll:
		res, err := apiClient.SearchAllMyGfycats(ctx, text, allDelay())
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		out = searchOutput{Gfycats: res.Gfycats, Related: res.Related, Found: res.Found}
	default:
		opts := gfycat.PageOptions{Count: searchCount, Cursor: searchCursor}
		var resp *gfycat.SearchResponse
		var err error
		if searchMine {
			resp, err = apiClient.SearchMyGfycats(ctx, text, opts)
		} else {
			resp, err = apiClient.SearchGfycats(ctx, text, opts)
		}
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if err := apiError("search failed", resp.ResponseMeta); err != nil {
			return err
		}
		out = searchOutput{Gfycats: resp.Gfycats, Related: resp.Related, Found: resp.Found, Cursor: resp.Cursor}
	}

	if jsonOutput {
		if out.Gfycats == nil {
			out.Gfycats = []gfycat.Gfycat{}
		}
		return printer.JSON(out)
	}
	if len(out.Gfycats) == 0 {
		printer.Info("No gfycats match %q", text)
		return nil
	}
	printer.Info("%d found", out.Found)
	renderGfycats(out.Gfycats)
	moreHint(out.Cursor)
	return nil
}
