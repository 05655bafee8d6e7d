package auth

import (
	"github.com/spf13/cobra"
)

// Cmd returns the auth command group
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and inspect the signed-in user",
		Long:  "Commands for obtaining an access token and checking what it allows",
	}
	cmd.AddCommand(
		LoginCmd(),
		WhoamiCmd(),
		MenuCmd(),
	)
	return cmd
}
