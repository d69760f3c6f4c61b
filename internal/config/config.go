package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// validatorInstance caches struct metadata across calls.
var validatorInstance = validator.New()

// Config holds all configuration for the topograph tools.
type Config struct {
	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// DotBinary is the graphviz executable used to render diagrams.
	DotBinary     string `validate:"required"`
	DiagramFormat string `validate:"oneof=svg png pdf"`
	DiffFormat    string `validate:"oneof=svg png pdf"`
	OpenViewer    bool

	// SourcePatterns selects the files handed to the fact scanner.
	SourcePatterns string `validate:"required"`
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		LogFormat:      "text",
		LogLevel:       "info",
		DotBinary:      "dot",
		DiagramFormat:  "svg",
		DiffFormat:     "png",
		OpenViewer:     true,
		SourcePatterns: "**/*.{cpp,cc,cxx}",
	}
}

// New loads configuration from an optional .env file and environment variables.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a validated Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("TOPOGRAPH_DOT_BINARY"); v != "" {
		cfg.DotBinary = v
	}
	if v := getenv("TOPOGRAPH_DIAGRAM_FORMAT"); v != "" {
		cfg.DiagramFormat = v
	}
	if v := getenv("TOPOGRAPH_DIFF_FORMAT"); v != "" {
		cfg.DiffFormat = v
	}
	if v := getenv("TOPOGRAPH_SOURCE_PATTERNS"); v != "" {
		cfg.SourcePatterns = v
	}
	if v := getenv("TOPOGRAPH_OPEN_VIEWER"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOPOGRAPH_OPEN_VIEWER %q: %w", v, err)
		}
		cfg.OpenViewer = open
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values against their allowed ranges.
func (c *Config) Validate() error {
	if err := validatorInstance.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
