package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/pkg/version"
)

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleVersionJSON,
				TUI:  handleVersionTUI,
			}, args)
		},
	}
}

func handleVersionJSON(_ context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	return executor.WriteJSON(version.Get())
}

func handleVersionTUI(_ context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	info := version.Get()
	_, err := fmt.Fprintf(executor.Out(), "%s %s\n%s\n",
		styles.TitleStyle.Render("plasturgie"),
		info.Version,
		styles.HelpStyle.Render(fmt.Sprintf("commit %s, built %s", info.CommitHash, info.BuildDate)),
	)
	return err
}
