package cli

import (
	"fmt"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "List gfycats you liked",
	RunE:  runLikes,
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List your saved gfycats",
	RunE:  runSaved,
}

var (
	likesAll    bool
	likesCount  int
	likesCursor string
	savedAll    bool
	savedCount  int
	savedCursor string
)

func init() {
	addPageFlags(likesCmd, &likesAll, &likesCount, &likesCursor)
	addPageFlags(savedCmd, &savedAll, &savedCount, &savedCursor)
}

func runLikes(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := GetContext()

	if likesAll {
		res, err := apiClient.GetAllMyLikes(ctx, allDelay())
		if err != nil {
			return fmt.Errorf("failed to list likes: %w", err)
		}
		if err := printGfycats(res.Gfycats, ""); err != nil {
			return err
		}
		if res.ErrorMessage != nil {
			// Pages before the failure were still printed.
			return fmt.Errorf("likes listing stopped early: %s", res.ErrorMessage.String())
		}
		return nil
	}

	resp, err := apiClient.GetMyLikes(ctx, gfycat.PageOptions{Count: likesCount, Cursor: likesCursor})
	return printGfycatsPage("failed to list likes", resp, err)
}

func runSaved(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := GetContext()

	if savedAll {
		items, err := apiClient.GetAllSavedGfycats(ctx, allDelay())
		if err != nil {
			return fmt.Errorf("failed to list saved gfycats: %w", err)
		}
		return printGfycats(items, "")
	}

	resp, err := apiClient.GetSavedGfycats(ctx, gfycat.PageOptions{Count: savedCount, Cursor: savedCursor})
	return printGfycatsPage("failed to list saved gfycats", resp, err)
}

func printGfycatsPage(action string, resp *gfycat.GfycatsResponse, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if err := apiError(action, resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	return printGfycats(resp.Gfycats, resp.Cursor)
}
