package resource

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/cmd"
)

func (d *Definition[T, In]) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   fmt.Sprintf("Show one %s", d.noun()),
		Example: fmt.Sprintf("  plasturgie %s get 42 --format json", d.Use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireClient: true,
				Action:        d.ViewAction,
			}, cmd.ModeHandlers{
				JSON: d.handleGetJSON,
				TUI:  d.handleGetTUI,
			}, args)
		},
	}
}

func (d *Definition[T, In]) fetchOne(ctx context.Context, executor *cmd.CommandExecutor, args []string) (T, error) {
	var zero T
	id, err := parseIDArg(args)
	if err != nil {
		return zero, err
	}
	return d.Backend(executor.Client()).Get(ctx, id)
}

func (d *Definition[T, In]) handleGetJSON(
	ctx context.Context,
	_ *cobra.Command,
	executor *cmd.CommandExecutor,
	args []string,
) error {
	item, err := d.fetchOne(ctx, executor, args)
	if err != nil {
		return err
	}
	return executor.WriteJSON(map[string]any{"data": item})
}

func (d *Definition[T, In]) handleGetTUI(
	ctx context.Context,
	_ *cobra.Command,
	executor *cmd.CommandExecutor,
	args []string,
) error {
	item, err := d.fetchOne(ctx, executor, args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(executor.Out(), renderDetail(fmt.Sprintf("%s #%s", d.Noun, item.ResourceID()), d.Columns, item))
	return err
}
