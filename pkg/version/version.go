// Package version holds build-time version info for init-server.
// Set via main using Set(), read from anywhere via the getters.
package version

import "fmt"

// Build information, populated by Set() at startup.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Set stores build-time version info. Empty values keep the defaults.
func Set(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// Version returns the build version string.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// BuildDate returns the build date string.
func BuildDate() string { return buildDate }

// String formats the build info on three lines.
func String() string {
	return fmt.Sprintf("init-server %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
}
