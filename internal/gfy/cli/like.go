package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <gfy-id>",
	Short: "Like or unlike one of your gfycats",
	Long: `Set or check the like status of a gfycat.

Examples:
  gfy like happycat
  gfy like happycat --unlike
  gfy like happycat --check`,
	Args: cobra.ExactArgs(1),
	RunE: runLike,
}

var (
	likeUnlike bool
	likeCheck  bool
)

func init() {
	likeCmd.Flags().BoolVar(&likeUnlike, "unlike", false, "Remove the like")
	likeCmd.Flags().BoolVar(&likeCheck, "check", false, "Only report whether you like it")
	likeCmd.MarkFlagsMutuallyExclusive("unlike", "check")
}

type likeStatus struct {
	ID    string `json:"id"`
	Liked bool   `json:"liked"`
}

func runLike(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	id := args[0]
	ctx := GetContext()

	if likeCheck {
		liked, err := apiClient.DoILikeMyGfycat(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check like: %w", err)
		}
		if jsonOutput {
			return printer.JSON(likeStatus{ID: id, Liked: liked})
		}
		if liked {
			printer.Info("You like %s", id)
		} else {
			printer.Info("You do not like %s", id)
		}
		return nil
	}

	like := !likeUnlike
	ok, err := apiClient.SetMyGfycatLikeStatus(ctx, id, like)
	if err != nil {
		return fmt.Errorf("failed to update like: %w", err)
	}
	if !ok {
		return fmt.Errorf("like status of %s was not changed", id)
	}
	if jsonOutput {
		return printer.JSON(likeStatus{ID: id, Liked: like})
	}
	if like {
		printer.Success("Liked %s", id)
	} else {
		printer.Success("Unliked %s", id)
	}
	return nil
}
