package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/drewbarontini/system-runner/builder"
)

const envPrefix = "ROUTINE_"

// Settings holds the CLI configuration.
// Precedence: defaults, then the config file, then ROUTINE_* variables, then flags.
type Settings struct {
	LogLevel    string        `koanf:"log_level"`
	RoutinesDir string        `koanf:"routines_dir"`
	Timeout     time.Duration `koanf:"timeout"`
	Trace       bool          `koanf:"trace"`
}

// LoadSettings reads the settings; configPath may be empty
func LoadSettings(configPath string) (*Settings, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// ROUTINE_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("log_level") {
		k.Set("log_level", "warn")
	}
	if !k.Exists("routines_dir") {
		k.Set("routines_dir", builder.GetRoutinesPath())
	}
	if !k.Exists("timeout") {
		k.Set("timeout", "5m")
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if _, err := s.Level(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Level parses LogLevel
func (s *Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s'", s.LogLevel)
	}
	return level, nil
}
