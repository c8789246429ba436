// Package skillmap holds build metadata for the skillmap CLI.
package skillmap

var (
	// Version is the semantic version of the build.
	// Set via -ldflags at release time.
	Version = "v0.1.0"

	// Build is the build timestamp or commit hash.
	// Set via -ldflags at release time.
	Build = "n/a"
)
