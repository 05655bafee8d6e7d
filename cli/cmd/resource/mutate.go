package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	engine "github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

// mutationOutput is the JSON document printed by create, update and delete.
type mutationOutput struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func (d *Definition[T, In]) manageOptions() cmd.ExecutorOptions {
	return cmd.ExecutorOptions{RequireClient: true, Action: d.ManageAction}
}

func (d *Definition[T, In]) createCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", d.noun()),
		Long: fmt.Sprintf(`Create a %s.

The payload is read from --file as JSON or YAML ("-" reads stdin). Without
--file an interactive form is shown.`, d.noun()),
		Example: fmt.Sprintf(`  plasturgie %[1]s create
  plasturgie %[1]s create -f new.yaml --format json`, d.Use),
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, d.manageOptions(), cmd.ModeHandlers{
				JSON: d.handleCreate(false),
				TUI:  d.handleCreate(true),
			}, args)
		},
	}
	c.Flags().StringP("file", "f", "", "JSON or YAML payload, - for stdin")
	return c
}

func (d *Definition[T, In]) updateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s", d.noun()),
		Long: fmt.Sprintf(`Update a %s.

Fields missing from the --file payload keep their current values. Without
--file an interactive form prefilled with the current record is shown.`, d.noun()),
		Example: fmt.Sprintf("  plasturgie %s update 42 -f changes.json", d.Use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, d.manageOptions(), cmd.ModeHandlers{
				JSON: d.handleUpdate(false),
				TUI:  d.handleUpdate(true),
			}, args)
		},
	}
	c.Flags().StringP("file", "f", "", "JSON or YAML payload, - for stdin")
	return c
}

func (d *Definition[T, In]) deleteCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", d.noun()),
		Example: fmt.Sprintf(`  plasturgie %[1]s delete 42
  plasturgie %[1]s delete 42 --force --format json`, d.Use),
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, d.manageOptions(), cmd.ModeHandlers{
				JSON: d.handleDelete(false),
				TUI:  d.handleDelete(true),
			}, args)
		},
	}
	c.Flags().Bool("force", false, "Delete without asking for confirmation")
	return c
}

// fillPayload reads --file into in, or shows the form when interactive.
func (d *Definition[T, In]) fillPayload(ctx context.Context, cobraCmd *cobra.Command, in *In, interactive bool) error {
	read, err := readPayload(cobraCmd, in)
	if err != nil || read {
		return err
	}
	if !interactive || d.Form == nil {
		return helpers.NewCliError("MISSING_INPUT", "a payload is required", "pass --file <path> or - for stdin")
	}
	form, apply := d.Form(in)
	submitted, err := components.RunForm(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}
	if !submitted {
		return engine.ErrCanceled
	}
	if apply != nil {
		return apply()
	}
	return nil
}

func (d *Definition[T, In]) handleCreate(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		var in In
		if err := d.fillPayload(ctx, cobraCmd, &in, interactive); err != nil {
			return err
		}
		client := executor.Client()
		if err := validatePayload(client, &in); err != nil {
			return err
		}
		rec := &engine.Recorder{}
		dispatcher := d.dispatcher(client, rec, nil)
		created, err := dispatcher.Create(ctx, in)
		if err != nil {
			return mutationError(rec, err)
		}
		return d.report(executor, interactive, rec, created)
	}
}

func (d *Definition[T, In]) handleUpdate(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		current, err := d.fetchOne(ctx, executor, args)
		if err != nil {
			return err
		}
		var in In
		if d.Seed != nil {
			in = d.Seed(current)
		}
		if err := d.fillPayload(ctx, cobraCmd, &in, interactive); err != nil {
			return err
		}
		client := executor.Client()
		if err := validatePayload(client, &in); err != nil {
			return err
		}
		rec := &engine.Recorder{}
		dispatcher := d.dispatcher(client, rec, nil)
		updated, err := dispatcher.Update(ctx, current.ResourceID(), in)
		if err != nil {
			return mutationError(rec, err)
		}
		return d.report(executor, interactive, rec, updated)
	}
}

func (d *Definition[T, In]) handleDelete(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		item, err := d.fetchOne(ctx, executor, args)
		if err != nil {
			return err
		}
		var confirmer engine.Confirmer
		switch {
		case helpers.GetFlagBoolWithDefault(cobraCmd, "force", false):
			confirmer = engine.AlwaysConfirm
		case interactive:
			confirmer = formConfirmer()
		}
		rec := &engine.Recorder{}
		if err := d.dispatcher(executor.Client(), rec, confirmer).Delete(ctx, item); err != nil {
			return mutationError(rec, err)
		}
		return d.report(executor, interactive, rec, nil)
	}
}

func (d *Definition[T, In]) dispatcher(
	client *api.Client,
	notifier engine.Notifier,
	confirmer engine.Confirmer,
) *engine.Dispatcher[T, In] {
	opts := []engine.DispatcherOption[T, In]{engine.WithDispatchNotifier[T, In](notifier)}
	if confirmer != nil {
		opts = append(opts, engine.WithConfirmer[T, In](confirmer))
	}
	return engine.NewDispatcher[T, In](d.Noun, d.Backend(client), nil, opts...)
}

// report prints the outcome of a successful mutation.
func (d *Definition[T, In]) report(executor *cmd.CommandExecutor, interactive bool, rec *engine.Recorder, data any) error {
	n, _ := rec.Last()
	if interactive {
		_, err := fmt.Fprintln(executor.Out(), renderNote(n))
		return err
	}
	return executor.WriteJSON(mutationOutput{Data: data, Message: n.Message})
}

// mutationError prefers the dispatcher's failure text for requests the
// backend rejected, and leaves auth and transport failures to the shared
// error categories.
func mutationError(rec *engine.Recorder, err error) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || engine.IsAuthorizationStatus(apiErr.Status) || apiErr.Status >= 500 {
		return err
	}
	n, ok := rec.Last()
	if !ok || n.Level != engine.LevelError {
		return err
	}
	cliErr := helpers.NewCliError("REQUEST_FAILED", n.Message).WithCause(err)
	if apiErr.RequestID != "" {
		cliErr.WithContext("request_id", apiErr.RequestID)
	}
	return cliErr
}

// formConfirmer asks with a yes/no form.
func formConfirmer() engine.ConfirmFunc {
	return func(ctx context.Context, prompt string) (bool, error) {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		))
		submitted, err := components.RunForm(ctx, form)
		if err != nil {
			return false, err
		}
		logger.FromContext(ctx).Debug("delete confirmation answered", "confirmed", submitted && confirmed)
		return submitted && confirmed, nil
	}
}
