package helpers

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatAuto OutputFormat = "auto"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatTUI  OutputFormat = "tui"
)

// Exit codes reported by the binary.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitForbidden       = 3
	ExitUnauthenticated = 4
)
