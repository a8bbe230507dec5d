package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Gfycat",
	Long:  `Manage the credentials and tokens used by the gfy CLI.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Gfycat",
	Long: `Authenticate with a Gfycat API application and account.

The client id and secret come from the Gfycat developer portal. Values not
given as flags are taken from the config file or GFYCAT_* environment
variables.

Examples:
  gfy auth login --client-id 2_abc --client-secret s3cret --username me --password pw
  GFYCAT_PASSWORD=pw gfy auth login --username me`,
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show authentication status",
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Forget the saved account and tokens",
	Annotations: map[string]string{skipClient: "true"},
	RunE:        runAuthLogout,
}

var (
	loginClientID     string
	loginClientSecret string
	loginUsername     string
	loginPassword     string
)

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)

	authLoginCmd.Flags().StringVar(&loginClientID, "client-id", "", "API client id")
	authLoginCmd.Flags().StringVar(&loginClientSecret, "client-secret", "", "API client secret")
	authLoginCmd.Flags().StringVar(&loginUsername, "username", "", "Gfycat username")
	authLoginCmd.Flags().StringVar(&loginPassword, "password", "", "Gfycat password")
}

type authStatus struct {
	Authenticated    bool      `json:"authenticated"`
	Username         string    `json:"username,omitempty"`
	ClientID         string    `json:"client_id,omitempty"`
	APIURL           string    `json:"api_url"`
	AccessExpiresAt  time.Time `json:"access_expires_at,omitzero"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitzero"`
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	for _, f := range []struct {
		value string
		field *string
	}{
		{loginClientID, &cfg.ClientID},
		{loginClientSecret, &cfg.ClientSecret},
		{loginUsername, &cfg.Username},
		{loginPassword, &cfg.Password},
	} {
		if f.value != "" {
			*f.field = f.value
		}
	}
	if !cfg.HasCredentials() {
		return fmt.Errorf("--client-id and --client-secret are required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("--username and --password are required")
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx := GetContext()
	session := client.Session()
	if err := session.Authenticate(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	access, refresh := session.Tokens()
	cfg.SetTokens(access, refresh)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if jsonOutput {
		return printer.JSON(authStatus{
			Authenticated:    true,
			Username:         cfg.Username,
			ClientID:         cfg.ClientID,
			APIURL:           cfg.APIURL,
			AccessExpiresAt:  access.ExpiresAt,
			RefreshExpiresAt: refresh.ExpiresAt,
		})
	}
	printer.Success("Logged in as %s", cfg.Username)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	status := authStatus{
		Authenticated: cfg.IsAuthenticated(),
		Username:      cfg.Username,
		ClientID:      cfg.ClientID,
		APIURL:        cfg.APIURL,
	}
	if cfg.Tokens != nil {
		status.AccessExpiresAt = cfg.Tokens.Access.ExpiresAt
		status.RefreshExpiresAt = cfg.Tokens.Refresh.ExpiresAt
	}

	if jsonOutput {
		return printer.JSON(status)
	}

	if !status.Authenticated {
		printer.Warn("Not authenticated")
		printer.Info("Run 'gfy auth login' to authenticate")
		return nil
	}

	printer.Success("Authenticated as %s", status.Username)
	printer.KeyValue("Client ID", status.ClientID)
	printer.KeyValue("API URL", status.APIURL)
	if !status.AccessExpiresAt.IsZero() {
		printer.KeyValue("Access token expires", status.AccessExpiresAt.Local().Format(time.RFC1123))
		printer.KeyValue("Refresh token expires", status.RefreshExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg.ClearAuth()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if jsonOutput {
		return printer.JSON(authStatus{APIURL: cfg.APIURL})
	}
	printer.Success("Logged out")
	return nil
}
