package config

import (
	"context"
	"time"
)

// Config represents the complete configuration of the plasturgie client.
type Config struct {
	API     APIConfig     `koanf:"api"     validate:"required"`
	CLI     CLIConfig     `koanf:"cli"`
	Runtime RuntimeConfig `koanf:"runtime"`
}

// APIConfig locates and authenticates against the platform REST backend.
type APIConfig struct {
	BaseURL string          `koanf:"base_url" validate:"required,url" env:"PLASTURGIE_API_URL"`
	Token   SensitiveString `koanf:"token"                            env:"PLASTURGIE_TOKEN"   sensitive:"true"`
	Timeout time.Duration   `koanf:"timeout"                          env:"PLASTURGIE_TIMEOUT"`
}

// CLIConfig contains CLI-specific configuration.
type CLIConfig struct {
	DefaultFormat string `koanf:"default_format" validate:"oneof=auto json tui" env:"PLASTURGIE_FORMAT"`
	Interactive   bool   `koanf:"interactive"                                   env:"PLASTURGIE_INTERACTIVE"`
	NoColor       bool   `koanf:"no_color"                                      env:"NO_COLOR"`
}

// RuntimeConfig controls process level behaviour such as logging.
type RuntimeConfig struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error disabled" env:"PLASTURGIE_LOG_LEVEL"`
	LogJSON  bool   `koanf:"log_json"                                                  env:"PLASTURGIE_LOG_JSON"`
}

// Service defines the configuration management service interface.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 30 * time.Second,
		},
		CLI: CLIConfig{
			DefaultFormat: "auto",
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}
