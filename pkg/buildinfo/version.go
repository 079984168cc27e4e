// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/kruskal/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/kruskal/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/kruskal/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/kruskal
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3"). It is also sent as
	// the User-Agent suffix when downloading graphs and reported by the
	// server's health endpoint.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
