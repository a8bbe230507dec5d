package cli

import (
	"fmt"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Follow a user",
	Long: `Follow a user, or check whether you already do.

Examples:
  gfy follow someone
  gfy follow someone --check`,
	Args: cobra.ExactArgs(1),
	RunE: runFollow,
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <username>",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnfollow,
}

var followingCmd = &cobra.Command{
	Use:   "following",
	Short: "List the users you follow",
	RunE:  runFollowing,
}

var followersCmd = &cobra.Command{
	Use:   "followers",
	Short: "List the users who follow you",
	RunE:  runFollowers,
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show recent gfycats from the users you follow",
	RunE:  runFeed,
}

var (
	followCheck     bool
	followingAll    bool
	followingCursor string
	followersAll    bool
	followersCursor string
	feedCursor      string
)

func init() {
	followCmd.Flags().BoolVar(&followCheck, "check", false, "Only report whether you follow the user")

	followingCmd.Flags().BoolVar(&followingAll, "all", false, "Fetch every page")
	followingCmd.Flags().StringVar(&followingCursor, "cursor", "", "Cursor of the page to fetch")
	followersCmd.Flags().BoolVar(&followersAll, "all", false, "Fetch every page")
	followersCmd.Flags().StringVar(&followersCursor, "cursor", "", "Cursor of the page to fetch")
	feedCmd.Flags().StringVar(&feedCursor, "cursor", "", "Cursor of the page to fetch")
}

type followStatus struct {
	Username  string `json:"username"`
	Following bool   `json:"following"`
}

func runFollow(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	user := args[0]
	ctx := GetContext()

	if followCheck {
		following, err := apiClient.CheckIfFollowUser(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to check follow: %w", err)
		}
		if jsonOutput {
			return printer.JSON(followStatus{Username: user, Following: following})
		}
		if following {
			printer.Info("You follow %s", user)
		} else {
			printer.Info("You do not follow %s", user)
		}
		return nil
	}

	ok, err := apiClient.FollowUser(ctx, user)
	return reportFollow(user, true, ok, err)
}

func runUnfollow(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ok, err := apiClient.UnfollowUser(GetContext(), args[0])
	return reportFollow(args[0], false, ok, err)
}

func reportFollow(user string, follow, ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("failed to update follow: %w", err)
	}
	if !ok {
		return fmt.Errorf("follow status of %s was not changed", user)
	}
	if jsonOutput {
		return printer.JSON(followStatus{Username: user, Following: follow})
	}
	if follow {
		printer.Success("Following %s", user)
	} else {
		printer.Success("Unfollowed %s", user)
	}
	return nil
}

func runFollowing(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := GetContext()

	if followingAll {
		users, err := apiClient.GetAllFollowing(ctx, allDelay())
		if err != nil {
			return fmt.Errorf("failed to list following: %w", err)
		}
		return printUsers(users, "")
	}

	resp, err := apiClient.GetFollowing(ctx, followingCursor)
	if err != nil {
		return fmt.Errorf("failed to list following: %w", err)
	}
	if err := apiError("failed to list following", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	return printUsers(resp.Follows, resp.Cursor)
}

func runFollowers(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := GetContext()

	if followersAll {
		users, err := apiClient.GetAllFollowers(ctx, allDelay())
		if err != nil {
			return fmt.Errorf("failed to list followers: %w", err)
		}
		return printUsers(users, "")
	}

	resp, err := apiClient.GetFollowers(ctx, followersCursor)
	if err != nil {
		return fmt.Errorf("failed to list followers: %w", err)
	}
	if err := apiError("failed to list followers", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	return printUsers(resp.Followers, resp.Cursor)
}

func printUsers(users []gfycat.FollowedUser, cursor string) error {
	if jsonOutput {
		if users == nil {
			users = []gfycat.FollowedUser{}
		}
		return printer.JSON(users)
	}
	if len(users) == 0 {
		printer.Info("No users found")
		return nil
	}
	renderUsers(users)
	moreHint(cursor)
	return nil
}

func runFeed(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	resp, err := apiClient.GetFollowingTimelineFeed(GetContext(), feedCursor)
	return printGfycatsPage("failed to load feed", resp, err)
}
