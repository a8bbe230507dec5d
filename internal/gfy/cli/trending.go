package cli

import (
	"fmt"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Browse trending gfycats and tags",
	Long: `Show what is trending on Gfycat.

Examples:
  gfy trending                  # Trending gfycats
  gfy trending --tag cats       # Trending gfycats for a tag
  gfy trending --tags           # Trending tag names
  gfy trending --populated      # Trending tags with sample gfycats
  gfy trending --curated        # Curated reactions`,
	RunE: runTrending,
}

var (
	trendingTag       string
	trendingTags      bool
	trendingPopulated bool
	trendingCurated   bool
	trendingCount     int
	trendingCursor    string
)

func init() {
	trendingCmd.Flags().StringVar(&trendingTag, "tag", "", "Only gfycats trending under this tag")
	trendingCmd.Flags().BoolVar(&trendingTags, "tags", false, "List trending tag names")
	trendingCmd.Flags().BoolVar(&trendingPopulated, "populated", false, "List trending tags with gfycats")
	trendingCmd.Flags().BoolVar(&trendingCurated, "curated", false, "List curated trending reactions")
	trendingCmd.Flags().IntVar(&trendingCount, "count", 30, "Items per page")
	trendingCmd.Flags().StringVar(&trendingCursor, "cursor", "", "Cursor of the page to fetch")
	trendingCmd.MarkFlagsMutuallyExclusive("tags", "populated", "curated")
}

func runTrending(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	switch {
	case trendingTags:
		tags, err := apiClient.GetTrendingTags(ctx)
		if err != nil {
			return fmt.Errorf("failed to get trending tags: %w", err)
		}
		if jsonOutput {
			if tags == nil {
				tags = []string{}
			}
			return printer.JSON(tags)
		}
		for _, t := range tags {
			printer.Println(t)
		}
		return nil

	case trendingPopulated:
		resp, err := apiClient.GetPopulatedTrendingTags(ctx, trendingCursor)
		if err != nil {
			return fmt.Errorf("failed to get trending tags: %w", err)
		}
		if err := apiError("failed to get trending tags", resp.ResponseMeta); err != nil {
			return err
		}
		if jsonOutput {
			return printer.JSON(resp)
		}
		for _, t := range resp.Tags {
			printer.Section(t.Tag)
			renderGfycats(t.Gfycats)
		}
		moreHint(resp.Cursor)
		return nil

	case trendingCurated:
		resp, err := apiClient.GetCuratedTrendingGfycats(ctx, trendingCursor)
		return printTagged("failed to get curated gfycats", resp, err)

	default:
		resp, err := apiClient.GetTrendingGfycats(ctx, trendingTag, gfycat.PageOptions{Count: trendingCount, Cursor: trendingCursor})
		return printTagged("failed to get trending gfycats", resp, err)
	}
}

func printTagged(action string, resp *gfycat.TaggedGfycatsResponse, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if err := apiError(action, resp.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(resp)
	}
	if resp.Tag != "" {
		printer.Section(resp.Tag)
	}
	return printGfycats(resp.Gfycats, resp.Cursor)
}
