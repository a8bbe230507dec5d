package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show or update your account",
	Long: `Show your profile, or change it with the update flags.

Examples:
  gfy me
  gfy me --name "Alice" --description "cats only"
  gfy me --clear-profile-url
  gfy me --email alice@example.com --upload-notices off
  gfy me --send-verification`,
	RunE: runMe,
}

var avatarCmd = &cobra.Command{
	Use:   "avatar <image>",
	Short: "Upload a new profile image",
	Args:  cobra.ExactArgs(1),
	RunE:  runAvatar,
}

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Show a user's public profile",
	Long: `Show a user's public profile.

Examples:
  gfy user someone
  gfy user someone --exists   # Only check the name`,
	Args: cobra.ExactArgs(1),
	RunE: runUser,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username-or-email>",
	Short: "Send a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE:  runResetPassword,
}

var (
	meName             string
	meDescription      string
	meProfileURL       string
	meClearName        bool
	meClearDescription bool
	meClearProfileURL  bool
	meEmail            string
	meUploadNotices    string
	meIframeVisible    bool
	meDomains          []string
	meGeo              []string
	meSendVerification bool
	userExistsOnly     bool
)

func init() {
	f := meCmd.Flags()
	f.StringVar(&meName, "name", "", "Display name")
	f.StringVar(&meDescription, "description", "", "Profile description")
	f.StringVar(&meProfileURL, "profile-url", "", "Profile link")
	f.BoolVar(&meClearName, "clear-name", false, "Remove the display name")
	f.BoolVar(&meClearDescription, "clear-description", false, "Remove the profile description")
	f.BoolVar(&meClearProfileURL, "clear-profile-url", false, "Remove the profile link")
	f.StringVar(&meEmail, "email", "", "Account email")
	f.StringVar(&meUploadNotices, "upload-notices", "", "Upload notification emails: on or off")
	f.BoolVar(&meIframeVisible, "iframe-image-visible", false, "Show the profile image in embeds")
	f.StringSliceVar(&meDomains, "domains", nil, "Default embed domain whitelist")
	f.StringSliceVar(&meGeo, "geo", nil, "Default geo whitelist")
	f.BoolVar(&meSendVerification, "send-verification", false, "Send the email verification message")

	meCmd.MarkFlagsMutuallyExclusive("name", "clear-name")
	meCmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	meCmd.MarkFlagsMutuallyExclusive("profile-url", "clear-profile-url")

	userCmd.Flags().BoolVar(&userExistsOnly, "exists", false, "Only report whether the user exists")
}

type meOutput struct {
	*gfycat.AuthenticatedUser
	EmailVerified bool `json:"emailVerified"`
}

func runMe(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := GetContext()

	account, details, err := meUpdates(cmd)
	if err != nil {
		return err
	}

	var result *multierror.Error
	changed := false
	if account != nil {
		changed = true
		if ok, err := apiClient.UpdateAccountInfo(ctx, *account); err != nil || !ok {
			result = multierror.Append(result, updateFailure("account info", err))
		}
	}
	if details != nil {
		changed = true
		if ok, err := apiClient.UpdateUserDetails(ctx, *details); err != nil || !ok {
			result = multierror.Append(result, updateFailure("user details", err))
		}
	}
	if meSendVerification {
		changed = true
		if ok, err := apiClient.SendEmailVerificationRequest(ctx); err != nil || !ok {
			result = multierror.Append(result, updateFailure("verification email", err))
		} else {
			printer.Success("Verification email sent")
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	if changed && (account != nil || details != nil) {
		printer.Success("Profile updated")
	}

	user, err := apiClient.GetAuthenticatedUserDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if err := apiError("failed to get profile", user.ResponseMeta); err != nil {
		return err
	}
	verified, err := apiClient.IsEmailVerified(ctx)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if jsonOutput {
		return printer.JSON(meOutput{AuthenticatedUser: user, EmailVerified: verified})
	}

	printProfile(&user.User)
	printer.KeyValue("Email", user.Email)
	printer.KeyValue("Email verified", strconv.FormatBool(verified))
	printer.KeyValue("Gfycats", strconv.Itoa(user.TotalGfycats))
	printer.KeyValue("Collections", strconv.Itoa(user.TotalAlbums))
	if len(user.DomainWhitelist) > 0 {
		printer.KeyValue("Domain whitelist", strings.Join(user.DomainWhitelist, ", "))
	}
	if len(user.GeoWhitelist) > 0 {
		printer.KeyValue("Geo whitelist", strings.Join(user.GeoWhitelist, ", "))
	}
	return nil
}

// meUpdates builds the account and detail updates selected by flags. A nil
// result means no flag for that update was given.
func meUpdates(cmd *cobra.Command) (*gfycat.AccountInfoUpdate, *gfycat.UserDetailsUpdate, error) {
	flags := cmd.Flags()

	var account gfycat.AccountInfoUpdate
	hasAccount := false
	if flags.Changed("name") {
		account.Name, hasAccount = &meName, true
	}
	if flags.Changed("description") {
		account.Description, hasAccount = &meDescription, true
	}
	if flags.Changed("profile-url") {
		account.ProfileURL, hasAccount = &meProfileURL, true
	}
	if meClearName || meClearDescription || meClearProfileURL {
		account.RemoveName = meClearName
		account.RemoveDescription = meClearDescription
		account.RemoveProfileURL = meClearProfileURL
		hasAccount = true
	}

	var details gfycat.UserDetailsUpdate
	hasDetails := false
	if flags.Changed("email") {
		details.Email, hasDetails = &meEmail, true
	}
	if flags.Changed("upload-notices") {
		switch strings.ToLower(meUploadNotices) {
		case "on", "true":
			v := "true"
			details.UploadNotices = &v
		case "off", "false":
			v := "false"
			details.UploadNotices = &v
		default:
			return nil, nil, fmt.Errorf("invalid --upload-notices %q (use on or off)", meUploadNotices)
		}
		hasDetails = true
	}
	if flags.Changed("iframe-image-visible") {
		details.IframeImageVisible, hasDetails = &meIframeVisible, true
	}
	if flags.Changed("domains") {
		details.DomainWhitelist, hasDetails = nonNil(meDomains), true
	}
	if flags.Changed("geo") {
		details.GeoWhitelist, hasDetails = nonNil(meGeo), true
	}

	var a *gfycat.AccountInfoUpdate
	var d *gfycat.UserDetailsUpdate
	if hasAccount {
		a = &account
	}
	if hasDetails {
		d = &details
	}
	return a, d, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func updateFailure(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: rejected by the API", what)
}

func printProfile(u *gfycat.User) {
	printer.Section(u.Username)
	if u.Name != "" {
		printer.KeyValue("Name", u.Name)
	}
	if u.Description != "" {
		printer.KeyValue("Description", u.Description)
	}
	if u.ProfileURL != "" {
		printer.KeyValue("Link", u.ProfileURL)
	}
	printer.KeyValue("Followers", strconv.Itoa(u.Followers))
	printer.KeyValue("Following", strconv.Itoa(u.Following))
	printer.KeyValue("Views", strconv.FormatInt(u.Views, 10))
	printer.KeyValue("Verified", strconv.FormatBool(u.Verified))
	printer.KeyValue("Joined", formatTime(timeFromUnix(u.CreateDate)))
}

func runAvatar(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ok, err := apiClient.UploadUserProfileImage(GetContext(), args[0])
	if err != nil {
		return fmt.Errorf("failed to upload profile image: %w", err)
	}
	if !ok {
		return fmt.Errorf("profile image was rejected")
	}
	if jsonOutput {
		return printer.JSON(map[string]any{"file": args[0], "ok": true})
	}
	printer.Success("Profile image updated")
	return nil
}

type userExistence struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

func runUser(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx := GetContext()

	exists, err := apiClient.DoesUserExist(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if userExistsOnly || exists != gfycat.UserExists {
		if jsonOutput {
			return printer.JSON(userExistence{Username: name, Status: exists.String()})
		}
		switch exists {
		case gfycat.UserExists:
			printer.Success("%s exists", name)
		case gfycat.UserNotFound:
			printer.Warn("%s was not found", name)
		default:
			printer.Warn("%s is not a valid username", name)
		}
		return nil
	}

	user, err := apiClient.GetUserDetails(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if err := apiError("failed to get user", user.ResponseMeta); err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(user)
	}
	printProfile(user)
	printer.KeyValue("Gfycats", strconv.Itoa(user.PublishedGfycats))
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	ok, err := apiClient.SendPasswordResetEmail(GetContext(), args[0])
	if err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	if !ok {
		return fmt.Errorf("password reset was rejected")
	}
	printer.Success("Password reset email sent to the address on file for %s", args[0])
	return nil
}
