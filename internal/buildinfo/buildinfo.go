// Package buildinfo carries release metadata set at link time.
package buildinfo

// These values are injected with -ldflags "-X" for release binaries.
// They default to empty for local/dev builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
