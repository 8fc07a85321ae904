// Package version holds build metadata injected with -ldflags.
package version

// Version is the semantic version of the ntbreak binary.
var Version = "dev"

// Commit is the Git hash the binary was built from.
var Commit = "none"

// Date is the build timestamp.
var Date = "unknown"

// String formats the build metadata for display.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
