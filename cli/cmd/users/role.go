package users

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/engine/access"
	engine "github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

type roleOutput struct {
	Data    roleChange `json:"data"`
	Message string     `json:"message"`
}

type roleChange struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     access.Role `json:"role"`
}

func newSetRoleCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "set-role <id>",
		Short: "Change the role of a user",
		Example: `  plasturgie users set-role 7 --role INSTRUCTOR
  plasturgie users set-role 7 --role company_rep --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireClient: true,
				Action:        access.ActionManageUsers,
			}, cmd.ModeHandlers{
				JSON: setRoleHandler(false),
				TUI:  setRoleHandler(true),
			}, args)
		},
	}
	c.Flags().String("role", "", "New role: ADMIN, INSTRUCTOR, LEARNER or COMPANY_REP")
	return c
}

func setRoleHandler(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		id, err := helpers.ParseID(args[0])
		if err != nil {
			return err
		}
		endpoint := executor.Client().Users()
		user, err := endpoint.Get(ctx, fmt.Sprint(id))
		if err != nil {
			return err
		}
		raw := helpers.GetFlagStringWithDefault(cobraCmd, "role", "")
		if raw == "" && interactive {
			if raw, err = pickRole(ctx, user); err != nil {
				return err
			}
		}
		if raw == "" {
			return helpers.NewCliError("MISSING_INPUT", "a role is required", "pass --role")
		}
		role, err := access.ParseRole(raw)
		if err != nil {
			return helpers.NewCliError("INVALID_ROLE", err.Error()).WithCause(err)
		}

		rec := &engine.Recorder{}
		dispatcher := engine.NewDispatcher[api.User, api.UserInput]("User", endpoint, nil,
			engine.WithDispatchNotifier[api.User, api.UserInput](rec))
		err = dispatcher.Run(ctx, engine.Operation{
			Success: fmt.Sprintf("Role of %q set to %s.", user.Username, role),
			Failure: fmt.Sprintf("Failed to change the role of %q", user.Username),
			Do: func(ctx context.Context) error {
				return endpoint.SetRole(ctx, user.ResourceID(), role.String())
			},
		})
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info("role changed", "user", user.Username, "role", role)
		n, _ := rec.Last()
		if interactive {
			_, err := fmt.Fprintln(executor.Out(), styles.SuccessStyle.Render("✓ "+n.Message))
			return err
		}
		return executor.WriteJSON(roleOutput{
			Data:    roleChange{ID: user.ResourceID(), Username: user.Username, Role: role},
			Message: n.Message,
		})
	}
}

func pickRole(ctx context.Context, user api.User) (string, error) {
	role := user.Role
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Role of %s", user.Username)).
			Options(roleOptions()...).
			Value(&role),
	))
	submitted, err := components.RunForm(ctx, form)
	if err != nil {
		return "", fmt.Errorf("failed to run form: %w", err)
	}
	if !submitted {
		return "", engine.ErrCanceled
	}
	return role, nil
}
