package version

import "fmt"

// Set at link time:
// -X 'github.com/plasturgie/plasturgie/pkg/version.Version=v1.2.0'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the build metadata printed by `plasturgie version`.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

// UserAgent identifies the CLI to the backend.
func UserAgent() string {
	return fmt.Sprintf("plasturgie-cli/%s", Version)
}
