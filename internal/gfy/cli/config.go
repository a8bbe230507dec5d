package cli

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/gfy/internal/gfy/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `View and modify the gfy configuration file.

Examples:
  gfy config show
  gfy config set page_delay 1s
  gfy config set tracing.enabled true
  gfy config path`,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current configuration",
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Set a configuration value",
	Long:        "Set a configuration value. Keys: " + strings.Join(config.Keys, ", "),
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := cfg.Redacted()
	if jsonOutput {
		return printer.JSON(map[string]any{
			"client_id":        shown.ClientID,
			"client_secret":    shown.ClientSecret,
			"username":         shown.Username,
			"password":         shown.Password,
			"api_url":          shown.APIURL,
			"page_delay":       cfg.GetPageDelay().String(),
			"poll_interval":    cfg.GetPollInterval().String(),
			"http_timeout":     cfg.GetTimeout("http").String(),
			"finalize_timeout": cfg.GetTimeout("finalize").String(),
			"tracing":          shown.Tracing,
		})
	}

	data, err := yaml.Marshal(shown)
	if err != nil {
		return err
	}
	printer.Printf("%s", data)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	printer.Success("Set %s", args[0])
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(map[string]string{"path": path})
	}
	fmt.Fprintln(printer.Out(), path)
	return nil
}
