package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/plasturgie/plasturgie/pkg/config"
)

// extractCLIFlags collects the root flags explicitly set by the user. A
// subcommand flag that shadows a root flag of the same name is not a
// configuration override.
func extractCLIFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	rootFlags := cmd.Root().PersistentFlags()
	rootFlags.VisitAll(func(f *pflag.Flag) {
		if _, ok := config.CLIFlagPath(f.Name); !ok || !f.Changed {
			return
		}
		if local := cmd.Flags().Lookup(f.Name); local != nil && local != f {
			return
		}
		if value, err := flagValue(rootFlags, f); err == nil {
			flags[f.Name] = value
		}
	})
	return flags
}

func flagValue(set *pflag.FlagSet, f *pflag.Flag) (any, error) {
	switch f.Value.Type() {
	case "bool":
		return set.GetBool(f.Name)
	case "duration":
		return set.GetDuration(f.Name)
	default:
		return f.Value.String(), nil
	}
}

// lookupFlag finds name among the command's own flags, then the flags it
// inherits. Persistent root flags are only merged into Flags() once the
// command runs, so the root set is the last resort.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

func stringFlag(cmd *cobra.Command, name string) (string, error) {
	f := lookupFlag(cmd, name)
	if f == nil {
		return "", fmt.Errorf("flag %q is not defined", name)
	}
	return f.Value.String(), nil
}

func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	f := lookupFlag(cmd, name)
	if f == nil {
		return false, fmt.Errorf("flag %q is not defined", name)
	}
	v, err := strconv.ParseBool(f.Value.String())
	if err != nil {
		return false, fmt.Errorf("invalid value for flag %q: %w", name, err)
	}
	return v, nil
}

// loadEnvFile loads environment variables from a file inside the working
// directory. A missing file is not an error.
func loadEnvFile(cmd *cobra.Command) (string, error) {
	envFile, err := stringFlag(cmd, "env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(pwd, envFile)
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return "", fmt.Errorf("failed to resolve env file path: %w", err)
	}
	if !isPathWithinDirectory(absPath, pwd) {
		return "", fmt.Errorf("env file path '%s' is outside the working directory", envFile)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return absPath, nil
}

// isPathWithinDirectory checks if a given path is within the specified directory
func isPathWithinDirectory(path, dir string) bool {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return false
	}
	if !strings.HasSuffix(absDir, string(filepath.Separator)) {
		absDir += string(filepath.Separator)
	}
	return strings.HasPrefix(absPath, absDir) || absPath == strings.TrimSuffix(absDir, string(filepath.Separator))
}
