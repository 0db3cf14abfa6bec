// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/elementbuild/internal/version.Version=v1.2.0"
package version

import "fmt"

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the metadata for --version.
func String() string {
	return fmt.Sprintf("elementbuild %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
