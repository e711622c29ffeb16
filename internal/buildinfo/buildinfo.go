// Package buildinfo holds version information injected at build time via
// ldflags, e.g. -X github.com/lvonsydow/colama/internal/buildinfo.Version=v1.2.0.
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
