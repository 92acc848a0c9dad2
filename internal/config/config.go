// Package config loads shocktest settings.
//
// Settings are resolved in layers, each overriding the previous one:
// built-in defaults, an optional config file (YAML or CUE), then SHOCKTEST_*
// environment variables. Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Environment variables consulted by Load.
const (
	EnvColor     = "SHOCKTEST_COLOR"
	EnvFormat    = "SHOCKTEST_FORMAT"
	EnvLogLevel  = "SHOCKTEST_LOG_LEVEL"
	EnvLogFormat = "SHOCKTEST_LOG_FORMAT"
	EnvHistoryDB = "SHOCKTEST_HISTORY_DB"
)

// Allowed values per field.
var (
	ColorModes    = []string{"auto", "always", "never"}
	OutputFormats = []string{"text", "json"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"text", "json"}
)

// Config holds the resolved settings.
type Config struct {
	Color     string `json:"color" yaml:"color"`
	Format    string `json:"format" yaml:"format"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`
	HistoryDB string `json:"history_db" yaml:"history_db"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Color:     "auto",
		Format:    "text",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// ValidationError reports a field holding a value outside its allowed set.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q (allowed: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Load resolves the configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every enumerated field.
func (c *Config) Validate() error {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"color", c.Color, ColorModes},
		{"format", c.Format, OutputFormats},
		{"log_level", c.LogLevel, LogLevels},
		{"log_format", c.LogFormat, LogFormats},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.allowed, chk.value) {
			return &ValidationError{Field: chk.field, Value: chk.value, Allowed: chk.allowed}
		}
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return decodeYAML(data, cfg)
	case ".cue":
		return decodeCUE(path, data, cfg)
	default:
		return fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .cue)", ext)
	}
}

// decodeYAML overlays the keys present in data onto cfg. Unknown keys are
// rejected so typos surface instead of being silently ignored.
func decodeYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// decodeCUE unifies the file with the embedded #Config definition, which
// closes the struct, constrains every field and supplies defaults.
func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return fmt.Errorf("failed to parse CUE config: %w", err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("invalid CUE config: %w", err)
	}
	if err := unified.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode CUE config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvColor, &cfg.Color},
		{EnvFormat, &cfg.Format},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvLogFormat, &cfg.LogFormat},
		{EnvHistoryDB, &cfg.HistoryDB},
	}
	for _, o := range overrides {
		if value := os.Getenv(o.key); value != "" {
			*o.target = value
		}
	}
}
