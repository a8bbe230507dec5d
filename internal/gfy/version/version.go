package version

import "fmt"

// Set at build time via -ldflags "-X github.com/abdul-hamid-achik/gfy/internal/gfy/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func Full() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

func Short() string {
	return Version
}
