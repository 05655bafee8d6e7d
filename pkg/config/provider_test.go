package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIProvider_Load(t *testing.T) {
	t.Run("Should map CLI flags to configuration structure", func(t *testing.T) {
		provider := NewCLIProvider(map[string]any{
			"api-url":   "https://cli.example.com",
			"log-level": "debug",
			"unknown":   "ignored",
		})

		data, err := provider.Load()

		require.NoError(t, err)
		assert.Equal(t, SourceCLI, provider.Type())
		assert.Equal(t, map[string]any{
			"api":     map[string]any{"base_url": "https://cli.example.com"},
			"runtime": map[string]any{"log_level": "debug"},
		}, data)
	})

	t.Run("Should return empty map for nil flags", func(t *testing.T) {
		data, err := NewCLIProvider(nil).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestYAMLProvider_Load(t *testing.T) {
	t.Run("Should parse a YAML file and drop nil values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plasturgie.yaml")
		content := "api:\n  base_url: https://yaml.example.com\n  token:\ncli:\n  default_format: json\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		data, err := NewYAMLProvider(path).Load()

		require.NoError(t, err)
		api, ok := data["api"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "https://yaml.example.com", api["base_url"])
		assert.NotContains(t, api, "token")
	})

	t.Run("Should return empty map when the file does not exist", func(t *testing.T) {
		data, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))

		_, err := NewYAMLProvider(path).Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML file")
	})
}

func TestSetNested(t *testing.T) {
	t.Run("Should report conflicts with scalar parents", func(t *testing.T) {
		m := map[string]any{"api": "scalar"}
		err := setNested(m, "api.base_url", "x")
		require.Error(t, err)
	})
}
