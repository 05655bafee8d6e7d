package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	engine "github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

type loginOutput struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	UserID    int64    `json:"user_id,omitempty"`
	Username  string   `json:"username,omitempty"`
	Roles     []string `json:"roles"`
	Copied    bool     `json:"copied,omitempty"`
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain an access token",
		Long: `Exchange a username (or email) and password for an access token.

The token is printed, not stored. Export it as PLASTURGIE_TOKEN or pass it
with --token to authenticate the other commands.`,
		Example: `  plasturgie auth login --username admin
  export PLASTURGIE_TOKEN=$(plasturgie auth login -u admin -p secret --format json | jq -r .token)`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}
	cmd.Flags().StringP("username", "u", "", "Username or email")
	cmd.Flags().StringP("password", "p", "", "Password, prompted for when omitted in interactive mode")
	cmd.Flags().Bool("copy", false, "Copy the token to the clipboard")
	return cmd
}

func runLogin(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireClient: true,
	}, cmd.ModeHandlers{
		JSON: loginHandler(false),
		TUI:  loginHandler(true),
	}, args)
}

func loginHandler(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		req := api.LoginRequest{
			UsernameOrEmail: helpers.GetFlagStringWithDefault(cobraCmd, "username", ""),
			Password:        helpers.GetFlagStringWithDefault(cobraCmd, "password", ""),
		}
		if interactive && (req.UsernameOrEmail == "" || req.Password == "") {
			if err := promptCredentials(ctx, &req); err != nil {
				return err
			}
		}
		if err := helpers.ValidateRequired(req.UsernameOrEmail, "username"); err != nil {
			return err
		}
		if err := helpers.ValidateRequired(req.Password, "password"); err != nil {
			return err
		}
		resp, err := executor.Client().Login(ctx, req)
		if err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
				return helpers.NewCliError("AUTH_ERROR", "Authentication failed",
					engine.Message(err, "invalid credentials")).WithCause(err)
			}
			return err
		}
		logger.FromContext(ctx).Info("signed in", "username", resp.Username, "roles", resp.Roles)
		out := loginOutput{
			Token:     resp.AccessToken,
			TokenType: resp.TokenType,
			UserID:    resp.UserID,
			Username:  resp.Username,
			Roles:     resp.Roles,
		}
		if helpers.GetFlagBoolWithDefault(cobraCmd, "copy", false) {
			out.Copied = copyToken(ctx, resp.AccessToken)
		}
		if !interactive {
			return executor.WriteJSON(out)
		}
		_, err = fmt.Fprintln(executor.Out(), renderLogin(out))
		return err
	}
}

// copyToken puts the token on the clipboard and reports whether it did.
func copyToken(ctx context.Context, token string) bool {
	if err := clipboard.WriteAll(token); err != nil {
		logger.FromContext(ctx).Warn("could not copy the token to the clipboard", "error", err)
		return false
	}
	return true
}

func promptCredentials(ctx context.Context, req *api.LoginRequest) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username or email").
			Value(&req.UsernameOrEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&req.Password),
	))
	submitted, err := components.RunForm(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}
	if !submitted {
		return engine.ErrCanceled
	}
	return nil
}

func renderLogin(out loginOutput) string {
	name := out.Username
	if name == "" {
		name = "user"
	}
	lines := []string{
		styles.SuccessStyle.Render(fmt.Sprintf("✓ Signed in as %s", name)),
		styles.InfoStyle.Render("Roles: " + strings.Join(out.Roles, ", ")),
		"",
		styles.HelpStyle.Render("Use the token with the other commands:"),
		"  export PLASTURGIE_TOKEN=" + out.Token,
	}
	if out.Copied {
		lines = append(lines, styles.HelpStyle.Render("The token was copied to the clipboard."))
	}
	return strings.Join(lines, "\n")
}
