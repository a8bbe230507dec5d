package cli

import (
	"github.com/abdul-hamid-achik/gfy/internal/gfy/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the gfy version",
	Annotations: map[string]string{skipClient: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printer.JSON(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			})
		}
		printer.Printf("gfy version %s\n", version.Full())
		return nil
	},
}
