package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
)

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "-"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// parseNsfw accepts the numeric code or one of clean, adult, offensive.
func parseNsfw(s string) (gfycat.NsfwCode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "clean", "":
		return gfycat.NsfwClean, nil
	case "1", "adult":
		return gfycat.NsfwAdult, nil
	case "3", "offensive":
		return gfycat.NsfwPotentiallyOffensive, nil
	}
	return 0, fmt.Errorf("invalid nsfw value %q (use clean, adult or offensive)", s)
}

// apiError turns a 4xx response into an error for commands that cannot
// continue.
func apiError(action string, meta gfycat.ResponseMeta) error {
	if meta.OK() {
		return nil
	}
	if msg := meta.ErrorMessage.String(); msg != "" {
		return fmt.Errorf("%s: HTTP %d: %s", action, meta.StatusCode, msg)
	}
	return fmt.Errorf("%s: HTTP %d", action, meta.StatusCode)
}

func renderGfycats(gfycats []gfycat.Gfycat) {
	table := printer.Table("Name", "Title", "Views", "Likes", "Created")
	for _, g := range gfycats {
		table.Append(
			g.GfyName,
			truncate(g.Title, 40),
			strconv.FormatInt(g.Views, 10),
			g.Likes.String(),
			formatTime(g.Created()),
		)
	}
	table.Render()
}

func renderUsers(users []gfycat.FollowedUser) {
	table := printer.Table("Username", "Name", "Followers", "Verified")
	for _, u := range users {
		verified := ""
		if u.Verified {
			verified = "yes"
		}
		table.Append(u.Username, truncate(u.Name, 30), strconv.Itoa(u.Followers), verified)
	}
	table.Render()
}

// moreHint tells the user how to fetch the next page.
func moreHint(cursor string) {
	if cursor != "" && !quietMode {
		printer.Println()
		printer.Printf("More results: --cursor=%s\n", cursor)
	}
}

func timeFromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
