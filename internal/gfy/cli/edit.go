package cli

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <gfy-id>",
	Short: "Change the metadata of one of your gfycats",
	Long: `Update title, description, tags, rating, visibility or embed
whitelists of a gfycat you own. Only the flags you pass are changed.

Examples:
  gfy edit happycat --title "Happy cat" --tags cat,happy
  gfy edit happycat --clear-description
  gfy edit happycat --unpublish
  gfy edit happycat --domains example.com,example.org
  gfy edit happycat --domains ""            # Remove the whitelist`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle            string
	editDescription      string
	editTags             []string
	editNsfw             string
	editPublish          bool
	editUnpublish        bool
	editClearTitle       bool
	editClearDescription bool
	editDomains          []string
	editGeo              []string
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().StringSliceVarP(&editTags, "tags", "t", nil, "Replace the tags (comma-separated)")
	editCmd.Flags().StringVar(&editNsfw, "nsfw", "", "Rating: clean, adult or offensive")
	editCmd.Flags().BoolVar(&editPublish, "publish", false, "Make the gfycat public")
	editCmd.Flags().BoolVar(&editUnpublish, "unpublish", false, "Make the gfycat private")
	editCmd.Flags().BoolVar(&editClearTitle, "clear-title", false, "Remove the title")
	editCmd.Flags().BoolVar(&editClearDescription, "clear-description", false, "Remove the description")
	editCmd.Flags().StringSliceVar(&editDomains, "domains", nil, "Domains allowed to embed (empty removes the whitelist)")
	editCmd.Flags().StringSliceVar(&editGeo, "geo", nil, "Country codes allowed to view (empty removes the whitelist)")

	editCmd.MarkFlagsMutuallyExclusive("publish", "unpublish")
	editCmd.MarkFlagsMutuallyExclusive("title", "clear-title")
	editCmd.MarkFlagsMutuallyExclusive("description", "clear-description")
}

type editChange struct {
	Field string `json:"field"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	id := args[0]
	ctx := GetContext()
	flags := cmd.Flags()

	type op struct {
		field string
		run   func() (bool, error)
	}
	var ops []op

	switch {
	case flags.Changed("title"):
		ops = append(ops, op{"title", func() (bool, error) { return apiClient.UpdateGfycatTitle(ctx, id, &editTitle) }})
	case editClearTitle:
		ops = append(ops, op{"title", func() (bool, error) { return apiClient.UpdateGfycatTitle(ctx, id, nil) }})
	}
	switch {
	case flags.Changed("description"):
		ops = append(ops, op{"description", func() (bool, error) { return apiClient.UpdateGfycatDescription(ctx, id, &editDescription) }})
	case editClearDescription:
		ops = append(ops, op{"description", func() (bool, error) { return apiClient.UpdateGfycatDescription(ctx, id, nil) }})
	}
	if flags.Changed("tags") {
		ops = append(ops, op{"tags", func() (bool, error) { return apiClient.UpdateGfycatTags(ctx, id, editTags) }})
	}
	if flags.Changed("nsfw") {
		nsfw, err := parseNsfw(editNsfw)
		if err != nil {
			return err
		}
		ops = append(ops, op{"nsfw", func() (bool, error) { return apiClient.UpdateGfycatNsfwStatus(ctx, id, nsfw) }})
	}
	if editPublish || editUnpublish {
		ops = append(ops, op{"published", func() (bool, error) { return apiClient.SetPublishStatus(ctx, id, editPublish) }})
	}
	if flags.Changed("domains") {
		ops = append(ops, op{"domain_whitelist", func() (bool, error) { return apiClient.UpdateGfycatDomainWhitelist(ctx, id, editDomains) }})
	}
	if flags.Changed("geo") {
		ops = append(ops, op{"geo_whitelist", func() (bool, error) { return apiClient.UpdateGfycatGeoWhitelist(ctx, id, editGeo) }})
	}

	if len(ops) == 0 {
		return fmt.Errorf("nothing to change; see 'gfy edit --help'")
	}

	var result *multierror.Error
	changes := make([]editChange, 0, len(ops))
	for _, o := range ops {
		ok, err := o.run()
		change := editChange{Field: o.field, OK: ok && err == nil}
		switch {
		case err != nil:
			change.Error = err.Error()
			result = multierror.Append(result, fmt.Errorf("%s: %w", o.field, err))
			printer.ItemFailed(o.field, err)
		case !ok:
			change.Error = "rejected"
			result = multierror.Append(result, fmt.Errorf("%s: rejected by the API", o.field))
			printer.ItemFailed(o.field, fmt.Errorf("rejected by the API"))
		default:
			printer.Success("Updated %s", o.field)
		}
		changes = append(changes, change)
	}

	if jsonOutput {
		if err := printer.JSON(changes); err != nil {
			return err
		}
	}
	return result.ErrorOrNil()
}
