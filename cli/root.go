package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/cmd/auth"
	"github.com/plasturgie/plasturgie/cli/cmd/certifications"
	"github.com/plasturgie/plasturgie/cli/cmd/companies"
	configcmd "github.com/plasturgie/plasturgie/cli/cmd/config"
	"github.com/plasturgie/plasturgie/cli/cmd/events"
	"github.com/plasturgie/plasturgie/cli/cmd/instructors"
	"github.com/plasturgie/plasturgie/cli/cmd/sessions"
	"github.com/plasturgie/plasturgie/cli/cmd/users"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/pkg/config"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

const (
	defaultConfigFile = "plasturgie.yaml"
	defaultEnvFile    = ".env"
)

// RootCmd builds the plasturgie command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plasturgie",
		Short: "Administer the plasturgie training platform",
		Long: `plasturgie manages the companies, users, instructors, events, practical
sessions and certifications of the training platform through its REST API.

Commands render an interactive view in a terminal and JSON otherwise; use
--format to choose explicitly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	addGlobalFlags(root)
	root.AddCommand(
		auth.Cmd(),
		companies.NewCompaniesCommand(),
		users.NewUsersCommand(),
		instructors.NewInstructorsCommand(),
		events.NewEventsCommand(),
		sessions.NewSessionsCommand(),
		certifications.NewCertificationsCommand(),
		configcmd.NewConfigCommand(),
		VersionCmd(),
	)
	return root
}

func addGlobalFlags(root *cobra.Command) {
	defaults := config.Default()
	flags := root.PersistentFlags()
	flags.String("config", defaultConfigFile, "Path to the YAML configuration file")
	flags.String("env-file", defaultEnvFile, "Path to a .env file loaded before configuration")
	flags.String("api-url", defaults.API.BaseURL, "Base URL of the platform API")
	flags.String("token", "", "Bearer token used for API calls")
	flags.Duration("timeout", defaults.API.Timeout, "Timeout for each API call")
	flags.String("format", defaults.CLI.DefaultFormat, "Output format: auto, json or tui")
	flags.Bool("interactive", false, "Force interactive mode even without a terminal")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", defaults.Runtime.LogLevel, "Log level: debug, info, warn, error or disabled")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
}

// SetupGlobalConfig loads configuration and attaches it, with a logger, to
// the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return fmt.Errorf("failed to load environment file: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	configFile, err := stringFlag(cmd, "config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	var sources []config.Source
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	if flags := extractCLIFlags(cmd); len(flags) > 0 {
		sources = append(sources, config.NewCLIProvider(flags))
	}
	manager := config.NewManager(nil)
	cfg, err := manager.Load(ctx, sources...)
	if err != nil {
		return err
	}
	logSource, err := boolFlag(cmd, "log-source")
	if err != nil {
		return fmt.Errorf("failed to get log-source flag: %w", err)
	}
	log := logger.SetupLogger(cmd.ErrOrStderr(), cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, logSource)
	if cfg.CLI.NoColor {
		styles.Disable()
	}
	ctx = config.ContextWithManager(ctx, manager)
	ctx = logger.ContextWithLogger(ctx, log)
	cmd.SetContext(ctx)
	log.Debug("configuration loaded",
		"config_file", configFile,
		"api_url", cfg.API.BaseURL,
		"format", cfg.CLI.DefaultFormat,
		"timeout", cfg.API.Timeout.Round(time.Millisecond),
	)
	return nil
}
