// Package version holds build-time identification for the trialscope binary.
package version

// Populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
