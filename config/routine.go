package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drewbarontini/system-runner/models"
)

// RoutineConfig represents the complete routine configuration from YAML
type RoutineConfig struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Variables   map[string]any   `yaml:"variables,omitempty"` // Global reusable variables
	Secrets     map[string]any   `yaml:"secrets,omitempty"`   // Sensitive values (API keys, tokens)
	Triggers    []models.Trigger `yaml:"triggers,omitempty"`  // When the routine is meant to run (metadata only)
	Steps       []StepConfig     `yaml:"steps"`
	Finalize    FinalizeConfig   `yaml:"finalize,omitempty"`
}

// StepConfig represents the configuration of a step from YAML
type StepConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Action      string         `yaml:"action,omitempty"` // Type of action to instantiate; empty for manual steps
	Config      map[string]any `yaml:"config,omitempty"` // Specific action configuration
}

// IsManual reports whether the step has no automated action
func (s StepConfig) IsManual() bool {
	return s.Action == ""
}

// DisplayTitle returns the title, falling back to the ID
func (s StepConfig) DisplayTitle() string {
	if s.Title == "" {
		return s.ID
	}
	return s.Title
}

// FinalizeConfig describes how the routine output is derived from the final state
type FinalizeConfig struct {
	// Output maps each output field to a value ("$js:", "$var:", ... or a literal).
	// When empty the output is a copy of the final state.
	Output map[string]any `yaml:"output,omitempty"`
}

// ParseRoutine parses a routine definition from YAML
func ParseRoutine(data []byte) (*RoutineConfig, error) {
	var cfg RoutineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// LoadRoutineFile reads, parses and validates a routine definition file
func LoadRoutineFile(path string) (*RoutineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routine file: %w", err)
	}

	cfg, err := ParseRoutine(data)
	if err != nil {
		return nil, err
	}

	if err := ValidateRoutine(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
