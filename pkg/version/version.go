// Package version exposes build-time metadata for the locfang binary.
// The variables are overridden at link time via -ldflags.
package version

var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
