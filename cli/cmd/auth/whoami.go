package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/engine/access"
)

type whoamiOutput struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Roles    []access.Role   `json:"roles"`
	Actions  []access.Action `json:"actions"`
}

// WhoamiCmd returns the whoami command
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and what they may do",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireClient: true,
			}, cmd.ModeHandlers{
				JSON: whoamiHandler(false),
				TUI:  whoamiHandler(true),
			}, args)
		},
	}
}

func whoamiHandler(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		p, err := executor.Principal(ctx)
		if err != nil {
			return err
		}
		out := whoamiOutput{ID: p.ID, Username: p.Username, Roles: p.Roles, Actions: allowedActions(p)}
		if !interactive {
			return executor.WriteJSON(out)
		}
		_, err = fmt.Fprintln(executor.Out(), renderWhoami(out))
		return err
	}
}

// allowedActions lists the actions p may perform, sorted by name.
func allowedActions(p *access.Principal) []access.Action {
	out := make([]access.Action, 0)
	for _, a := range access.Actions() {
		if access.CanPerform(a, p) {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}

func renderWhoami(out whoamiOutput) string {
	roles := make([]string, 0, len(out.Roles))
	for _, r := range out.Roles {
		roles = append(roles, r.String())
	}
	actions := make([]string, 0, len(out.Actions))
	for _, a := range out.Actions {
		actions = append(actions, "  • "+string(a))
	}
	var b strings.Builder
	b.WriteString(styles.RenderTitle(out.Username) + "\n")
	b.WriteString(styles.InfoStyle.Render(fmt.Sprintf("id %s · %s", out.ID, strings.Join(roles, ", "))) + "\n\n")
	b.WriteString(styles.HelpStyle.Render("Allowed actions:") + "\n")
	b.WriteString(strings.Join(actions, "\n"))
	return styles.DialogStyle.Render(b.String())
}
