package logger

import (
	"io"
	"sync"
)

var (
	defaultOnce sync.Once
	fallback    Logger
)

func defaultLogger() Logger {
	defaultOnce.Do(func() {
		fallback = NewLogger(nil)
	})
	return fallback
}

// SetupLogger builds the command logger. Records go to out so that JSON
// command output on stdout stays machine readable.
func SetupLogger(out io.Writer, logLevel string, logJSON, logSource bool) Logger {
	return NewLogger(&Config{
		Level:      ParseLevel(logLevel),
		Output:     out,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}
