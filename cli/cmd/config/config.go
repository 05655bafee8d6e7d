package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/models"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/pkg/config"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

// NewConfigCommand creates the config command using the unified command pattern
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection and diagnostics",
		Long:  `Inspect the configuration the client resolved from flags, environment, file and defaults.`,
	}

	cmd.AddCommand(
		NewConfigShowCommand(),
		NewConfigDiagnosticsCommand(),
		NewConfigValidateCommand(),
	)

	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values",
		Long: `Display the resolved configuration. Secrets are redacted.
Supports JSON, YAML, and table output formats.`,
		Example: `  plasturgie config show
  plasturgie config show --sources --format yaml`,
		Args: cobra.NoArgs,
		RunE: executeConfigShowCommand,
	}

	// shadows the root --format for this command only
	cmd.Flags().StringP("format", "f", "", "Output format (json, yaml, table)")
	cmd.Flags().Bool("sources", false, "Show which source provided each value")

	return cmd
}

// executeConfigShowCommand handles the config show command execution
func executeConfigShowCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleConfigShow,
		TUI:  handleConfigShow,
	}, args)
}

// handleConfigShow prints the configuration in the requested format. Without
// --format, JSON mode prints JSON and interactive mode a table.
func handleConfigShow(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config show command", "mode", executor.GetMode())

	format := helpers.GetFlagStringWithDefault(cobraCmd, "format", "")
	if format == "" {
		format = formatTable
		if executor.GetMode() == models.ModeJSON {
			format = formatJSON
		}
	}
	if err := helpers.ValidateEnum(format, []string{formatJSON, formatYAML, formatTable}, "format"); err != nil {
		return err
	}
	showSources := helpers.GetFlagBoolWithDefault(cobraCmd, "sources", false)

	cfg := config.FromContext(ctx)
	var sources map[string]config.SourceType
	if showSources {
		sources = collectSources(ctx, cfg)
	}
	return formatConfigOutput(executor.Out(), cfg, sources, format, showSources)
}

// collectSources asks the manager where every key came from.
func collectSources(ctx context.Context, cfg *config.Config) map[string]config.SourceType {
	sources := make(map[string]config.SourceType)
	manager := config.ManagerFromContext(ctx)
	for key := range flattenConfig(cfg) {
		source := config.SourceDefault
		if manager != nil {
			if s := manager.SourceOf(key); s != "" {
				source = s
			}
		}
		sources[key] = source
	}
	return sources
}

// NewConfigDiagnosticsCommand creates the config diagnostics subcommand
func NewConfigDiagnosticsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Run configuration diagnostics",
		Long: `Perform configuration diagnostics including:
- Configuration validation
- Source precedence
- Environment variable mapping`,
		Args: cobra.NoArgs,
		RunE: executeConfigDiagnosticsCommand,
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed source information")

	return cmd
}

// executeConfigDiagnosticsCommand handles the config diagnostics command execution
func executeConfigDiagnosticsCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleConfigDiagnosticsJSON,
		TUI:  handleConfigDiagnosticsTUI,
	}, args)
}

// handleConfigDiagnosticsJSON handles config diagnostics in JSON mode
func handleConfigDiagnosticsJSON(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config diagnostics command in JSON mode")

	return runDiagnostics(ctx, cobraCmd, executor, true)
}

// handleConfigDiagnosticsTUI handles config diagnostics in TUI mode
func handleConfigDiagnosticsTUI(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config diagnostics command in TUI mode")

	return runDiagnostics(ctx, cobraCmd, executor, false)
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the resolved configuration",
		Long:  `Validate the resolved configuration against its rules, e.g. that api.base_url is a URL.`,
		Args:  cobra.NoArgs,
		RunE:  executeConfigValidateCommand,
	}

	return cmd
}

// executeConfigValidateCommand handles the config validate command execution
func executeConfigValidateCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleConfigValidateJSON,
		TUI:  handleConfigValidateTUI,
	}, args)
}

func validate(ctx context.Context) error {
	service := config.NewService()
	if manager := config.ManagerFromContext(ctx); manager != nil {
		service = manager.Service
	}
	return service.Validate(config.FromContext(ctx))
}

// handleConfigValidateJSON handles config validate in JSON mode
func handleConfigValidateJSON(
	ctx context.Context,
	_ *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config validate command in JSON mode")

	if err := validate(ctx); err != nil {
		return executor.WriteJSON(map[string]any{"valid": false, "message": err.Error()})
	}
	return executor.WriteJSON(map[string]any{"valid": true, "message": "Configuration is valid"})
}

// handleConfigValidateTUI handles config validate in TUI mode
func handleConfigValidateTUI(
	ctx context.Context,
	_ *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config validate command in TUI mode")

	if err := validate(ctx); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	_, err := fmt.Fprintln(executor.Out(), styles.SuccessStyle.Render("✓ Configuration is valid"))
	return err
}

// formatConfigOutput formats and outputs configuration based on requested format
func formatConfigOutput(
	w io.Writer,
	cfg *config.Config,
	sources map[string]config.SourceType,
	format string,
	showSources bool,
) error {
	switch format {
	case formatJSON:
		return helpers.NewOutputWriter(w, helpers.OutputFormatJSON).WriteData(configDocument(cfg, sources, showSources))
	case formatYAML:
		return helpers.NewOutputWriter(w, helpers.OutputFormatYAML).WriteData(configDocument(cfg, sources, showSources))
	case formatTable:
		return outputTable(w, cfg, sources, showSources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func configDocument(cfg *config.Config, sources map[string]config.SourceType, showSources bool) map[string]any {
	output := map[string]any{"config": flattenConfig(cfg)}
	if showSources && len(sources) > 0 {
		output["sources"] = sources
	}
	return output
}

// runDiagnostics performs the actual diagnostics
func runDiagnostics(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	isJSON bool,
) error {
	verbose := helpers.GetFlagBoolWithDefault(cobraCmd, "verbose", false)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := config.FromContext(ctx)
	validationErr := validate(ctx)

	if isJSON {
		diagnostics := map[string]any{
			"working_directory": cwd,
			"configuration":     flattenConfig(cfg),
			"validation": map[string]any{
				"valid": validationErr == nil,
				"error": errorText(validationErr),
			},
			"environment": envMappings(),
		}
		if verbose {
			diagnostics["sources"] = collectSources(ctx, cfg)
		}
		return executor.WriteJSON(diagnostics)
	}

	return outputDiagnosticsTUI(ctx, executor.Out(), cwd, cfg, validationErr, verbose)
}

func errorText(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}

// envMappings lists the environment variable bound to each key.
func envMappings() map[string]string {
	out := make(map[string]string)
	for _, m := range config.GenerateEnvMappings() {
		out[m.ConfigPath] = m.EnvVar
	}
	return out
}

// outputDiagnosticsTUI outputs diagnostics in TUI format
func outputDiagnosticsTUI(
	ctx context.Context,
	w io.Writer,
	cwd string,
	cfg *config.Config,
	validationErr error,
	verbose bool,
) error {
	log := logger.FromContext(ctx)

	var b strings.Builder
	b.WriteString(styles.RenderTitle("Configuration Diagnostics") + "\n")
	fmt.Fprintf(&b, "Working Directory: %s\n\n", cwd)

	b.WriteString(styles.InfoStyle.Render("Configuration Validation") + "\n")
	if validationErr != nil {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("✗ Validation errors:\n%v", validationErr)) + "\n")
	} else {
		b.WriteString(styles.SuccessStyle.Render("✓ Configuration is valid") + "\n")
	}

	b.WriteString("\n" + styles.InfoStyle.Render("Source Precedence") + "\n")
	b.WriteString("Configuration sources (highest to lowest precedence):\n")
	b.WriteString("1. CLI flags\n2. Environment variables\n3. YAML configuration file\n4. Default values\n")

	b.WriteString("\n" + styles.InfoStyle.Render("Environment Variables") + "\n")
	mappings := envMappings()
	keys := sortedKeys(mappings)
	for _, key := range keys {
		fmt.Fprintf(&b, "  %-22s %s\n", mappings[key], key)
	}

	if _, err := fmt.Fprint(w, b.String()); err != nil {
		return err
	}
	if verbose {
		if _, err := fmt.Fprintln(w, "\n"+styles.InfoStyle.Render("Configuration Sources")); err != nil {
			return err
		}
		if err := outputTable(w, cfg, collectSources(ctx, cfg), true); err != nil {
			return err
		}
	}

	log.Debug("diagnostics completed successfully")
	return nil
}

// outputTable outputs configuration as a table
func outputTable(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, showSources bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	flatMap := flattenConfig(cfg)
	keys := sortedKeys(flatMap)

	if showSources {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		fmt.Fprintln(tw, "---\t-----\t------")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
	}

	for _, key := range keys {
		value := flatMap[key]
		if showSources {
			source := sources[key]
			if source == "" {
				source = config.SourceDefault
			}
			label := string(source)
			if source == config.SourceEnv {
				label = fmt.Sprintf("%s (%s)", source, config.GetEnvVarForConfigPath(key))
			}
			fmt.Fprintf(tw, "%s\t%v\t%s\n", key, value, label)
		} else {
			fmt.Fprintf(tw, "%s\t%v\n", key, value)
		}
	}

	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flattenConfig converts nested config to flat key-value map
func flattenConfig(cfg *config.Config) map[string]string {
	result := make(map[string]string)
	flattenAPIConfig(cfg, result)
	flattenCLIConfig(cfg, result)
	flattenRuntimeConfig(cfg, result)
	for key, value := range result {
		if config.IsSensitiveConfigPath(key) {
			result[key] = config.SensitiveString(value).String()
		}
	}
	return result
}

// flattenAPIConfig flattens backend connection settings
func flattenAPIConfig(cfg *config.Config, result map[string]string) {
	result["api.base_url"] = cfg.API.BaseURL
	result["api.token"] = cfg.API.Token.Value()
	result["api.timeout"] = cfg.API.Timeout.String()
}

// flattenCLIConfig flattens CLI configuration
func flattenCLIConfig(cfg *config.Config, result map[string]string) {
	result["cli.default_format"] = cfg.CLI.DefaultFormat
	result["cli.interactive"] = strconv.FormatBool(cfg.CLI.Interactive)
	result["cli.no_color"] = strconv.FormatBool(cfg.CLI.NoColor)
}

// flattenRuntimeConfig flattens runtime configuration
func flattenRuntimeConfig(cfg *config.Config, result map[string]string) {
	result["runtime.log_level"] = cfg.Runtime.LogLevel
	result["runtime.log_json"] = strconv.FormatBool(cfg.Runtime.LogJSON)
}
