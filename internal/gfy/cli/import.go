package cli

import (
	"fmt"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Create a gfycat from a remote video URL",
	Long: `Ask Gfycat to fetch and encode a video from a URL.

Examples:
  gfy import https://example.com/clip.mp4
  gfy import https://example.com/clip.mp4 --title "Clip" --start 5 --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importTitle       string
	importDescription string
	importTags        []string
	importNsfw        string
	importStart       int
	importWait        bool
)

func init() {
	importCmd.Flags().StringVar(&importTitle, "title", "", "Gfycat title")
	importCmd.Flags().StringVar(&importDescription, "description", "", "Gfycat description")
	importCmd.Flags().StringSliceVarP(&importTags, "tags", "t", nil, "Tags (comma-separated)")
	importCmd.Flags().StringVar(&importNsfw, "nsfw", "", "Rating: clean, adult or offensive")
	importCmd.Flags().IntVar(&importStart, "start", 0, "Start the gfycat this many seconds into the source")
	importCmd.Flags().BoolVarP(&importWait, "wait", "w", false, "Wait for encoding to complete")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	opts := gfycat.UploadFromURLOptions{
		URL:          args[0],
		Title:        importTitle,
		Description:  importDescription,
		Tags:         importTags,
		FetchSeconds: importStart,
	}
	if cmd.Flags().Changed("nsfw") {
		nsfw, err := parseNsfw(importNsfw)
		if err != nil {
			return err
		}
		opts.Nsfw = &nsfw
	}

	ctx := GetContext()
	resp, err := apiClient.UploadFromURL(ctx, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if err := apiError("import failed", resp.ResponseMeta); err != nil {
		return err
	}
	if !resp.IsOk || resp.GfyName == "" {
		return fmt.Errorf("import was not accepted")
	}

	result := uploadResult{
		File:    args[0],
		GfyName: resp.GfyName,
		URL:     gfycat.Gfycat{GfyName: resp.GfyName}.PageURL(),
	}
	if importWait {
		st, err := waitForEncoding(ctx, resp.GfyName, true)
		if err != nil {
			return err
		}
		result.Status = st.Task
	}

	if jsonOutput {
		return printer.JSON(result)
	}
	printer.GfycatUploaded(args[0], result.URL, nil)
	return nil
}
