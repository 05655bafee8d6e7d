package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasturgie/plasturgie/pkg/config"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, m := range config.GenerateEnvMappings() {
		t.Setenv(m.EnvVar, "")
		require.NoError(t, os.Unsetenv(m.EnvVar))
	}
}

func TestSetupGlobalConfig(t *testing.T) {
	t.Run("Should inject YAML values into the command context", func(t *testing.T) {
		clearConfigEnv(t)
		cfgPath := filepath.Join(t.TempDir(), "plasturgie.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("api:\n  base_url: https://yaml.example.com\n"), 0o600))
		cmd := RootCmd()
		cmd.SetContext(context.Background())
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", cfgPath))

		require.NoError(t, SetupGlobalConfig(cmd))

		cfg := config.FromContext(cmd.Context())
		assert.Equal(t, "https://yaml.example.com", cfg.API.BaseURL)
		manager := config.ManagerFromContext(cmd.Context())
		require.NotNil(t, manager)
		assert.Equal(t, config.SourceYAML, manager.SourceOf("api.base_url"))
		assert.NotNil(t, logger.FromContext(cmd.Context()))
	})

	t.Run("Should let flags override YAML and environment", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("PLASTURGIE_API_URL", "https://env.example.com")
		cfgPath := filepath.Join(t.TempDir(), "plasturgie.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("api:\n  base_url: https://yaml.example.com\n"), 0o600))
		cmd := RootCmd()
		cmd.SetContext(context.Background())
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", cfgPath))
		require.NoError(t, cmd.PersistentFlags().Set("api-url", "https://flag.example.com"))
		require.NoError(t, cmd.PersistentFlags().Set("timeout", "5s"))

		require.NoError(t, SetupGlobalConfig(cmd))

		cfg := config.FromContext(cmd.Context())
		assert.Equal(t, "https://flag.example.com", cfg.API.BaseURL)
		assert.Equal(t, "5s", cfg.API.Timeout.String())
		assert.Equal(t, config.SourceCLI, config.ManagerFromContext(cmd.Context()).SourceOf("api.base_url"))
	})

	t.Run("Should use the environment over YAML", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("PLASTURGIE_FORMAT", "json")
		cfgPath := filepath.Join(t.TempDir(), "plasturgie.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("cli:\n  default_format: tui\n"), 0o600))
		cmd := RootCmd()
		cmd.SetContext(context.Background())
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", cfgPath))

		require.NoError(t, SetupGlobalConfig(cmd))

		assert.Equal(t, "json", config.FromContext(cmd.Context()).CLI.DefaultFormat)
	})

	t.Run("Should read root flags from a subcommand that has not run yet", func(t *testing.T) {
		clearConfigEnv(t)
		cfgPath := filepath.Join(t.TempDir(), "plasturgie.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("api:\n  base_url: https://yaml.example.com\n"), 0o600))
		root := RootCmd()
		require.NoError(t, root.PersistentFlags().Set("env-file", ""))
		require.NoError(t, root.PersistentFlags().Set("config", cfgPath))
		require.NoError(t, root.PersistentFlags().Set("log-source", "true"))
		sub, _, err := root.Find([]string{"companies", "list"})
		require.NoError(t, err)
		sub.SetContext(context.Background())

		require.NoError(t, SetupGlobalConfig(sub))

		assert.Equal(t, "https://yaml.example.com", config.FromContext(sub.Context()).API.BaseURL)
	})

	t.Run("Should reject invalid configuration", func(t *testing.T) {
		clearConfigEnv(t)
		cmd := RootCmd()
		cmd.SetContext(context.Background())
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", ""))
		require.NoError(t, cmd.PersistentFlags().Set("format", "xml"))

		err := SetupGlobalConfig(cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})
}

func TestExtractCLIFlags(t *testing.T) {
	t.Run("Should ignore subcommand flags shadowing a root flag", func(t *testing.T) {
		clearConfigEnv(t)
		var format string
		root := RootCmd()
		child := &cobra.Command{
			Use: "probe",
			RunE: func(cmd *cobra.Command, _ []string) error {
				format = config.FromContext(cmd.Context()).CLI.DefaultFormat
				return nil
			},
		}
		child.Flags().String("format", "table", "Local output format")
		root.AddCommand(child)
		root.SetArgs([]string{"probe", "--env-file", "", "--config", "", "--format", "yaml"})
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})

		require.NoError(t, root.Execute())
		assert.Equal(t, "auto", format)
	})

	t.Run("Should only collect changed flags", func(t *testing.T) {
		root := RootCmd()
		require.NoError(t, root.PersistentFlags().Set("no-color", "true"))
		flags := extractCLIFlags(root)
		assert.Equal(t, map[string]any{"no-color": true}, flags)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("Should refuse files outside the working directory", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("env-file", "../../outside.env"))
		_, err := loadEnvFile(cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the working directory")
	})

	t.Run("Should resolve the env file flag on an unexecuted subcommand", func(t *testing.T) {
		root := RootCmd()
		require.NoError(t, root.PersistentFlags().Set("env-file", "../../outside.env"))
		sub, _, err := root.Find([]string{"companies", "list"})
		require.NoError(t, err)

		_, err = loadEnvFile(sub)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the working directory")
		assert.NotContains(t, err.Error(), "not defined")
	})

	t.Run("Should load variables from the file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("PLASTURGIE_TEST_VALUE", "")
		require.NoError(t, os.Unsetenv("PLASTURGIE_TEST_VALUE"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLASTURGIE_TEST_VALUE=loaded\n"), 0o600))
		cmd := RootCmd()

		path, err := loadEnvFile(cmd)
		require.NoError(t, err)
		assert.Equal(t, "loaded", os.Getenv("PLASTURGIE_TEST_VALUE"))
		assert.Equal(t, ".env", filepath.Base(path))
	})
}
