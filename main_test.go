package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plasturgie/plasturgie/cli/helpers"
)

func TestExitCode(t *testing.T) {
	t.Run("Should exit with the forbidden status on permission errors", func(t *testing.T) {
		err := helpers.NewCliError("PERMISSION_DENIED", "You are not allowed to do this")
		assert.Equal(t, helpers.ExitForbidden, exitCode(err))
	})
	t.Run("Should exit with the unauthenticated status when nobody is signed in", func(t *testing.T) {
		assert.Equal(t, helpers.ExitUnauthenticated, exitCode(helpers.NewCliError("AUTH_ERROR", "Not signed in")))
	})
	t.Run("Should exit with the failure status otherwise", func(t *testing.T) {
		assert.Equal(t, helpers.ExitFailure, exitCode(helpers.NewCliError("NOT_FOUND", "missing")))
		assert.Equal(t, helpers.ExitFailure, exitCode(errors.New("boom")))
	})
}
