package config

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "eyJhbGciOiJIUzI1NiJ9.plasturgie.signature"

func TestSensitiveString(t *testing.T) {
	t.Run("Should hide the bearer token when formatted", func(t *testing.T) {
		token := SensitiveString(testToken)
		assert.Equal(t, "[REDACTED]", token.String())
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", token))
		assert.Equal(t, testToken, token.Value())
	})

	t.Run("Should stay empty when no token is configured", func(t *testing.T) {
		assert.Empty(t, SensitiveString("").String())
	})

	t.Run("Should decode a raw token from JSON", func(t *testing.T) {
		var token SensitiveString
		require.NoError(t, json.Unmarshal([]byte(`"`+testToken+`"`), &token))
		assert.Equal(t, testToken, token.Value())
	})
}

func TestSensitiveString_Output(t *testing.T) {
	cfg := Default()
	cfg.API.Token = SensitiveString(testToken)

	t.Run("Should redact api.token in JSON output", func(t *testing.T) {
		data, err := json.Marshal(cfg)
		require.NoError(t, err)
		assert.NotContains(t, string(data), testToken)
		assert.Contains(t, string(data), `"[REDACTED]"`)
	})

	t.Run("Should redact api.token in YAML output", func(t *testing.T) {
		data, err := yaml.Marshal(cfg.API)
		require.NoError(t, err)
		assert.NotContains(t, string(data), testToken)
		assert.Contains(t, string(data), "[REDACTED]")
	})

	t.Run("Should keep other API settings readable", func(t *testing.T) {
		data, err := yaml.Marshal(cfg.API)
		require.NoError(t, err)
		assert.Contains(t, string(data), cfg.API.BaseURL)
	})
}
