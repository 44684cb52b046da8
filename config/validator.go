package config

import "fmt"

// ValidateRoutine validates a routine definition
// - the routine must have a name
// - step IDs must be non-empty and unique
// - only steps with an action may carry action configuration
// - finalize output fields must be named
func ValidateRoutine(cfg *RoutineConfig) error {
	if cfg == nil {
		return fmt.Errorf("routine definition is empty")
	}

	if cfg.Name == "" {
		return fmt.Errorf("routine name is required")
	}

	seen := make(map[string]bool, len(cfg.Steps))
	for i, step := range cfg.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("routine %s, step %d: %w", cfg.Name, i, err)
		}
		if seen[step.ID] {
			return fmt.Errorf("routine %s: duplicate step ID '%s'", cfg.Name, step.ID)
		}
		seen[step.ID] = true
	}

	for field := range cfg.Finalize.Output {
		if field == "" {
			return fmt.Errorf("routine %s: finalize output field name cannot be empty", cfg.Name)
		}
	}

	for i, trigger := range cfg.Triggers {
		if trigger.Type == "" {
			return fmt.Errorf("routine %s, trigger %d: type is required", cfg.Name, i)
		}
	}

	return nil
}

// validateStep validates a single step
func validateStep(step StepConfig) error {
	if step.ID == "" {
		return fmt.Errorf("step ID is required")
	}

	if step.IsManual() && len(step.Config) > 0 {
		return fmt.Errorf("step '%s' has configuration but no action", step.ID)
	}

	return nil
}
