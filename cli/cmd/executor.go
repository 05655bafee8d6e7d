package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/models"
	"github.com/plasturgie/plasturgie/engine/access"
	"github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/config"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

// CommandExecutor handles common setup and execution patterns for CLI commands:
// mode detection, the API client, the signed-in principal and error reporting.
type CommandExecutor struct {
	mode      models.Mode
	client    *api.Client
	provider  access.PrincipalProvider
	principal *access.Principal
	out       io.Writer
	errOut    io.Writer
	color     bool
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	RequireClient bool
	// Action must be allowed for the signed-in principal before the handler runs.
	Action access.Action
}

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	executor := &CommandExecutor{
		mode:   mode,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		color:  mode == models.ModeJSON && cmd.OutOrStdout() == os.Stdout && helpers.ShouldUseColor(cmd),
	}
	if !opts.RequireClient && opts.Action == "" {
		return executor, nil
	}
	cfg := config.FromContext(ctx)
	client, err := api.New(cfg)
	if err != nil {
		return nil, helpers.NewCliError("CONFIG_ERROR", "Invalid API configuration", err.Error()).WithCause(err)
	}
	executor.client = client
	executor.provider = newPrincipalProvider(cfg, client)
	if opts.Action != "" {
		if err := executor.Authorize(ctx, opts.Action); err != nil {
			return nil, err
		}
	}
	return executor, nil
}

// newPrincipalProvider reads the principal from the token claims, asking the
// backend when the token is not a readable JWT.
func newPrincipalProvider(cfg *config.Config, client *api.Client) access.PrincipalProvider {
	profile := api.ProfileProvider{Client: client}
	if strings.TrimSpace(cfg.API.Token.Value()) == "" {
		return profile
	}
	return fallbackProvider{
		primary:   access.TokenProvider{Token: cfg.API.Token.Value()},
		secondary: profile,
	}
}

type fallbackProvider struct {
	primary   access.PrincipalProvider
	secondary access.PrincipalProvider
}

func (f fallbackProvider) Principal(ctx context.Context) (*access.Principal, error) {
	p, err := f.primary.Principal(ctx)
	if err == nil || errors.Is(err, access.ErrNoPrincipal) {
		return p, err
	}
	logger.FromContext(ctx).Debug("token claims unreadable, asking the backend", "error", err)
	return f.secondary.Principal(ctx)
}

// Principal resolves and caches the signed-in user.
func (e *CommandExecutor) Principal(ctx context.Context) (*access.Principal, error) {
	if e.principal != nil {
		return e.principal, nil
	}
	if e.provider == nil {
		return nil, access.ErrNoPrincipal
	}
	p, err := e.provider.Principal(ctx)
	if err != nil {
		return nil, err
	}
	e.principal = p
	return p, nil
}

// Authorize fails unless the signed-in user may perform action.
func (e *CommandExecutor) Authorize(ctx context.Context, action access.Action) error {
	p, err := e.Principal(ctx)
	if err != nil {
		return fmt.Errorf("failed to identify the signed-in user: %w", err)
	}
	if err := access.Require(action, p); err != nil {
		allowed := access.AllowedRoles(action)
		names := make([]string, 0, len(allowed))
		for _, r := range allowed {
			names = append(names, r.String())
		}
		logger.FromContext(ctx).Debug("action refused", "action", action, "roles", p.Roles)
		return helpers.NewForbiddenError(string(action), names...)
	}
	return nil
}

// Can reports whether the signed-in user may perform action. Unknown users may not.
func (e *CommandExecutor) Can(ctx context.Context, action access.Action) bool {
	p, err := e.Principal(ctx)
	if err != nil {
		return false
	}
	return access.CanPerform(action, p)
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case models.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case models.ModeTUI:
		if handlers.TUI == nil {
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.TUI(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// Client returns the API client, nil unless the options required one.
func (e *CommandExecutor) Client() *api.Client {
	return e.client
}

// GetMode returns the detected execution mode.
func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// Out is where command output goes.
func (e *CommandExecutor) Out() io.Writer {
	return e.out
}

// WriteJSON writes data as indented JSON to the command output.
func (e *CommandExecutor) WriteJSON(data any) error {
	return helpers.NewOutputWriter(e.out, helpers.OutputFormatJSON).WithColor(e.color).WriteData(data)
}

// ExecuteCommand is a convenience function that combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(cmd.ErrOrStderr(), err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(
		cmd.ErrOrStderr(),
		executor.Execute(cmd.Context(), cmd, handlers, args),
		executor.GetMode(),
	)
}

// HandleCommonErrors provides consistent error handling across all commands.
func HandleCommonErrors(w io.Writer, err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	cliErr := categorizeError(err)
	helpers.OutputError(w, cliErr, mode)
	return cliErr
}

// categorizeError converts errors to structured CLI errors
func categorizeError(err error) *helpers.CliError {
	var cliErr *helpers.CliError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var apiErr *api.APIError
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, resource.ErrCanceled):
		return helpers.NewCliError("OPERATION_CANCELED", "Operation was canceled by user").WithCause(err)
	case errors.Is(err, access.ErrNoPrincipal):
		return helpers.NewCliError(
			"AUTH_ERROR",
			"Not signed in",
			"run `plasturgie auth login` and set PLASTURGIE_TOKEN or --token",
		).WithCause(err)
	case errors.Is(err, resource.ErrConfirmationRequired):
		return helpers.NewCliError("CONFIRMATION_REQUIRED", "Deletion must be confirmed", "pass --force").WithCause(err)
	case helpers.IsForbiddenError(err):
		return helpers.NewCliError("PERMISSION_DENIED", "You are not allowed to do this", err.Error()).WithCause(err)
	case errors.As(err, &apiErr):
		return categorizeAPIError(apiErr, err)
	case errors.Is(err, context.DeadlineExceeded) || helpers.IsTimeoutError(err):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out", err.Error()).WithCause(err)
	case helpers.IsNetworkError(err):
		return helpers.NewCliError("NETWORK_ERROR", "Network connection failed", err.Error()).WithCause(err)
	case helpers.IsAuthError(err):
		return helpers.NewCliError("AUTH_ERROR", "Authentication failed", err.Error()).WithCause(err)
	default:
		return helpers.NewCliError("COMMAND_FAILED", err.Error()).WithCause(err)
	}
}

func categorizeAPIError(apiErr *api.APIError, err error) *helpers.CliError {
	var out *helpers.CliError
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		out = helpers.NewCliError("AUTH_ERROR", "Authentication failed", "sign in with `plasturgie auth login`")
	case apiErr.Status == http.StatusForbidden:
		out = helpers.NewCliError("PERMISSION_DENIED", "The server refused this operation")
	case apiErr.Status == http.StatusNotFound:
		out = helpers.NewCliError("NOT_FOUND", resource.Message(err, "not found"))
	case apiErr.Status >= http.StatusInternalServerError:
		out = helpers.NewCliError("SERVER_ERROR", resource.Message(err, "server error"))
	default:
		out = helpers.NewCliError("REQUEST_FAILED", resource.Message(err, "request failed"))
	}
	if apiErr.RequestID != "" {
		out.WithContext("request_id", apiErr.RequestID)
	}
	return out.WithCause(err)
}
