package version

import "fmt"

var (
	// Version is the docflow release, set at build time with -ldflags.
	Version = "0.3.0"

	// GitCommit is the commit the binary was built from, if known.
	GitCommit = ""
)

// Full returns the version with the commit appended when it is set.
func Full() string {
	if GitCommit == "" {
		return fmt.Sprintf("docflow v%s", Version)
	}
	return fmt.Sprintf("docflow v%s (%s)", Version, GitCommit)
}
