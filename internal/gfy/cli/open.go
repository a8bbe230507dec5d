package cli

import (
	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var openURL = browser.OpenURL

var openCmd = &cobra.Command{
	Use:   "open <gfy-id>",
	Short: "Open a gfycat in the browser",
	Long: `Open the gfycat.com page of a gfycat in your default browser.

Examples:
  gfy open happycat`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	url := gfycat.Gfycat{GfyName: args[0]}.PageURL()

	if jsonOutput {
		return printer.JSON(map[string]string{"url": url})
	}
	if err := openURL(url); err != nil {
		printer.Warn("Could not open browser automatically")
		printer.Printf("Please open this URL manually: %s\n", url)
		return nil
	}
	printer.Info("Opened %s", url)
	return nil
}
