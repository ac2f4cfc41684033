// Package version exposes build information for the pipeline binaries.
package version

// Overridden at build time via -ldflags "-X cxr-features/internal/version.Version=...".
var (
	// Version is the pipeline release.
	Version = "1.0.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the source revision.
	GitCommit = "unknown"
)
