package resource

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/helpers"
	engine "github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

// listOutput is the JSON document printed by list.
type listOutput[T any] struct {
	Data  []T              `json:"data"`
	Total int              `json:"total"`
	Query string           `json:"query,omitempty"`
	Empty engine.EmptyKind `json:"empty,omitempty"`
}

func (d *Definition[T, In]) listCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", d.Plural),
		Long: fmt.Sprintf(`List %s.

In interactive mode the list can be searched with "/", reloaded with "r" and,
for users allowed to, edited in place.`, d.Plural),
		Example: fmt.Sprintf(`  plasturgie %[1]s list
  plasturgie %[1]s list --filter acme --format json`, d.Use),
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireClient: true,
				Action:        d.ViewAction,
			}, cmd.ModeHandlers{
				JSON: d.handleListJSON,
				TUI:  d.handleListTUI,
			}, args)
		},
	}
	c.Flags().String("filter", "", "Only show records containing this text")
	return c
}

func (d *Definition[T, In]) handleListJSON(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	query := helpers.GetFlagStringWithDefault(cobraCmd, "filter", "")
	ctrl := d.controller(d.Backend(executor.Client()), nil)
	defer ctrl.Close()

	var state engine.State[T]
	err := helpers.LogOperation(ctx, "list "+d.Plural, func() error {
		state = ctrl.Load(ctx)
		if state.Failed() {
			return helpers.NewCliError("LOAD_FAILED", state.Message).WithCause(state.Err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	view := engine.NewView(state, query, d.Fields)
	log.Debug("listed records", "resource", d.Plural, "total", len(state.Items), "visible", len(view.Visible))
	return executor.WriteJSON(listOutput[T]{
		Data:  view.Visible,
		Total: len(state.Items),
		Query: query,
		Empty: view.Empty,
	})
}

func (d *Definition[T, In]) handleListTUI(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	query := helpers.GetFlagStringWithDefault(cobraCmd, "filter", "")
	m := newListModel(ctx, d, executor, query)
	defer m.ctrl.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
