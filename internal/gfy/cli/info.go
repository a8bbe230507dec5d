package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <gfy-id>",
	Short: "Show details of a gfycat",
	Long: `Show the metadata and media URLs of a gfycat.

Examples:
  gfy info happycat
  gfy info happycat --json | jq '.content_urls.mp4.url'`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	resp, err := apiClient.GetGfycatInfo(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get gfycat: %w", err)
	}
	if err := apiError("failed to get gfycat", resp.ResponseMeta); err != nil {
		return err
	}

	g := resp.GfyItem
	if jsonOutput {
		return printer.JSON(g)
	}

	printer.Section(g.GfyName)
	printer.KeyValue("Title", g.Title)
	if g.Description != "" {
		printer.KeyValue("Description", g.Description)
	}
	printer.KeyValue("Owner", g.Username)
	printer.KeyValue("URL", g.PageURL())
	printer.KeyValue("Size", fmt.Sprintf("%dx%d, %s", g.Width, g.Height, formatSize(g.MP4Size)))
	printer.KeyValue("Views", strconv.FormatInt(g.Views, 10))
	printer.KeyValue("Likes", g.Likes.String())
	printer.KeyValue("Published", strconv.FormatBool(g.Published == int(gfycat.Published)))
	printer.KeyValue("NSFW", g.Nsfw.String())
	printer.KeyValue("Created", formatTime(g.Created()))
	if len(g.Tags) > 0 {
		printer.KeyValue("Tags", strings.Join(g.Tags, ", "))
	}

	media := mediaURLs(g)
	if len(media) > 0 {
		printer.Section("Media")
		for _, kind := range []string{"mp4", "webm", "webp", "gif", "mobile"} {
			if u, ok := media[kind]; ok {
				printer.KeyValue(kind, u)
			}
		}
	}
	return nil
}

func mediaURLs(g gfycat.Gfycat) map[string]string {
	media := make(map[string]string)
	add := func(kind string, c *gfycat.ContentURL, fallback string) {
		switch {
		case c != nil && c.URL != "":
			media[kind] = c.URL
		case fallback != "":
			media[kind] = fallback
		}
	}
	add("mp4", g.ContentURLs.MP4, g.MP4URL)
	add("webm", g.ContentURLs.Webm, g.WebmURL)
	add("webp", g.ContentURLs.Webp, g.WebpURL)
	add("gif", g.ContentURLs.LargeGif, g.GifURL)
	add("mobile", g.ContentURLs.Mobile, g.MobileURL)
	return media
}
