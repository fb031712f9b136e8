package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/xmvnconf/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/xmvnconf/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/xmvnconf/internal/version.Date={{.Date}}
)

// Info is the one line version banner
func Info() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
