package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/plasturgie/plasturgie/cli"
	"github.com/plasturgie/plasturgie/cli/helpers"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error onto the process status. Structured errors
// were already printed by the command; anything else is printed here.
func exitCode(err error) int {
	var cliErr *helpers.CliError
	if !errors.As(err, &cliErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return helpers.ExitFailure
	}
	switch cliErr.Code {
	case "PERMISSION_DENIED":
		return helpers.ExitForbidden
	case "AUTH_ERROR":
		return helpers.ExitUnauthenticated
	default:
		return helpers.ExitFailure
	}
}
