package cli

import (
	"fmt"
	"strconv"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"collection", "albums"},
	Short:   "Manage collections",
	Long: `List, create and edit collections of gfycats.

Examples:
  gfy collections list
  gfy collections list --user someone
  gfy collections show 1a2b3c --all
  gfy collections create "Cats" --tags cat --private
  gfy collections add 1a2b3c happycat sadfrog
  gfy collections delete 1a2b3c`,
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	RunE:  runCollectionsList,
}

var collectionsShowCmd = &cobra.Command{
	Use:   "show <collection-id>",
	Short: "List the gfycats of a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsShow,
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsCreate,
}

var collectionsUpdateCmd = &cobra.Command{
	Use:   "update <collection-id>",
	Short: "Rename, retag or change the visibility of a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsUpdate,
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <collection-id...>",
	Short: "Delete collections",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCollectionsDelete,
}

var collectionsAddCmd = &cobra.Command{
	Use:   "add <collection-id> <gfy-id...>",
	Short: "Add gfycats to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionsAdd,
}

var collectionsRemoveCmd = &cobra.Command{
	Use:   "remove <collection-id> <gfy-id...>",
	Short: "Remove gfycats from a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionsRemove,
}

var (
	collUser        string
	collAll         bool
	collCount       int
	collCursor      string
	collShowUser    string
	collShowAll     bool
	collShowCount   int
	collShowCursor  string
	collTags        []string
	collDescription string
	collPrivate     bool
	collGfycats     []string
	collName        string
	collPublish     bool
	collUnpublish   bool
	collForce       bool
)

func init() {
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsShowCmd)
	collectionsCmd.AddCommand(collectionsCreateCmd)
	collectionsCmd.AddCommand(collectionsUpdateCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)
	collectionsCmd.AddCommand(collectionsAddCmd)
	collectionsCmd.AddCommand(collectionsRemoveCmd)

	addPageFlags(collectionsListCmd, &collAll, &collCount, &collCursor)
	collectionsListCmd.Flags().StringVar(&collUser, "user", "", "List this user's collections")

	addPageFlags(collectionsShowCmd, &collShowAll, &collShowCount, &collShowCursor)
	collectionsShowCmd.Flags().StringVar(&collShowUser, "user", "", "Owner of the collection")

	collectionsCreateCmd.Flags().StringSliceVarP(&collTags, "tags", "t", nil, "Tags (comma-separated)")
	collectionsCreateCmd.Flags().StringVar(&collDescription, "description", "", "Description")
	collectionsCreateCmd.Flags().BoolVar(&collPrivate, "private", false, "Create unpublished")
	collectionsCreateCmd.Flags().StringSliceVar(&collGfycats, "gfycats", nil, "Gfycats to add (comma-separated)")

	collectionsUpdateCmd.Flags().StringVar(&collName, "name", "", "New name")
	collectionsUpdateCmd.Flags().StringSliceVarP(&collTags, "tags", "t", nil, "Replace the tags (comma-separated)")
	collectionsUpdateCmd.Flags().BoolVar(&collPublish, "publish", false, "Make the collection public")
	collectionsUpdateCmd.Flags().BoolVar(&collUnpublish, "unpublish", false, "Make the collection private")
	collectionsUpdateCmd.MarkFlagsMutuallyExclusive("publish", "unpublish")

	collectionsDeleteCmd.Flags().BoolVarP(&collForce, "force", "f", false, "Skip confirmation")
}

func runCollectionsList(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	if collAll {
		var items []gfycat.Collection
		var err error
		if collUser != "" {
			items, err = apiClient.GetAllUserCollections(ctx, collUser, allDelay())
		} else {
			items, err = apiClient.GetAllMyCollections(ctx, allDelay())
		}
		if err != nil {
			return fmt.Errorf("failed to list collections: %w", err)
		}
		return printCollections(items, "")
	}

	opts := gfycat.PageOptions{Count: collCount, Cursor: collCursor}
	var resp *gfycat.CollectionsResponse
	var err error
	if collUser != "" {
		resp, err = apiClient.GetUserCollections(ctx, collUser, opts)
	} else {
		resp, err = apiClient.GetMyCollections(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if err := apiError("failed to list collections", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	if resp.BookmarkCollection != nil {
		printer.KeyValue("Saved", fmt.Sprintf("%d gfycats", resp.BookmarkCollection.ContentCount))
	}
	return printCollections(resp.Collections, resp.Cursor)
}

func printCollections(items []gfycat.Collection, cursor string) error {
	if jsonOutput {
		if items == nil {
			items = []gfycat.Collection{}
		}
		return printer.JSON(items)
	}
	if len(items) == 0 {
		printer.Info("No collections found")
		return nil
	}

	table := printer.Table("ID", "Name", "Gfycats", "Published", "Created")
	for _, c := range items {
		table.Append(
			c.FolderID,
			truncate(c.FolderName, 40),
			strconv.Itoa(c.ContentCount),
			strconv.FormatBool(c.Published == gfycat.Published),
			formatTime(timeFromUnix(c.CreateDate)),
		)
	}
	table.Render()
	moreHint(cursor)
	return nil
}

func runCollectionsShow(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	id := args[0]

	if collShowAll {
		var items []gfycat.Gfycat
		var err error
		if collShowUser != "" {
			items, err = apiClient.GetAllUserCollectionGfycats(ctx, collShowUser, id, allDelay())
		} else {
			items, err = apiClient.GetAllMyCollectionGfycats(ctx, id, allDelay())
		}
		if err != nil {
			return fmt.Errorf("failed to list collection: %w", err)
		}
		return printGfycats(items, "")
	}

	opts := gfycat.PageOptions{Count: collShowCount, Cursor: collShowCursor}
	var resp *gfycat.GfycatsResponse
	var err error
	if collShowUser != "" {
		resp, err = apiClient.GetUserCollectionGfycats(ctx, collShowUser, id, opts)
	} else {
		resp, err = apiClient.GetMyCollectionGfycats(ctx, id, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to list collection: %w", err)
	}
	if err := apiError("failed to list collection", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	return printGfycats(resp.Gfycats, resp.Cursor)
}

func runCollectionsCreate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	published := gfycat.Published
	if collPrivate {
		published = gfycat.Unpublished
	}
	resp, err := apiClient.CreateCollection(GetContext(), gfycat.CollectionInput{
		FolderName:  args[0],
		Tags:        collTags,
		Description: collDescription,
		Published:   published,
		GfyIDs:      collGfycats,
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if err := apiError("failed to create collection", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp.Collection)
	}
	printer.Success("Created collection %s (%s)", resp.Collection.FolderName, resp.Collection.FolderID)
	return nil
}

func runCollectionsUpdate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	update := gfycat.CollectionUpdate{FolderName: collName}
	if cmd.Flags().Changed("tags") {
		update.Tags = collTags
	}
	if collPublish || collUnpublish {
		status := gfycat.Published
		if collUnpublish {
			status = gfycat.Unpublished
		}
		update.Published = &status
	}
	if update.FolderName == "" && update.Tags == nil && update.Published == nil {
		return fmt.Errorf("nothing to change; see 'gfy collections update --help'")
	}

	resp, err := apiClient.UpdateCollection(GetContext(), args[0], update)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	if err := apiError("failed to update collection", resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	printer.Success("Updated collection %s", args[0])
	return nil
}

func runCollectionsDelete(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	if !confirm(collForce, "Are you sure you want to delete %d collection(s)?", len(args)) {
		printer.Info("Cancelled")
		return nil
	}

	ctx := GetContext()
	return deleteEach(args, func(id string) (bool, error) {
		return apiClient.DeleteCollection(ctx, id)
	})
}

func runCollectionsAdd(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	resp, err := apiClient.AddToCollection(GetContext(), args[0], args[1:])
	return reportContents("add to collection", resp, err, "Added %d gfycat(s) to %s", len(args)-1, args[0])
}

func runCollectionsRemove(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	resp, err := apiClient.RemoveFromCollection(GetContext(), args[0], args[1:])
	return reportContents("remove from collection", resp, err, "Removed %d gfycat(s) from %s", len(args)-1, args[0])
}

func reportContents(action string, resp *gfycat.StatusResponse, err error, format string, a ...any) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if err := apiError("failed to "+action, resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	printer.Success(format, a...)
	return nil
}
