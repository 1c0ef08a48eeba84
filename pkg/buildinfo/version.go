// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/DavidBetteridge/TaskVisualiser/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/DavidBetteridge/TaskVisualiser/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/DavidBetteridge/TaskVisualiser/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/taskvis
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// String returns the build information as three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns a cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
