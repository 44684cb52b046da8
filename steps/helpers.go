package steps

import (
	"fmt"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

// valueSpec converts a raw configuration value to a ValueSpec
func valueSpec(raw any) config.ValueSpec {
	return builder.ParseConfigValue(raw)
}

// stringConfig returns an optional string configuration entry
func stringConfig(cfg map[string]any, key, fallback string) (string, error) {
	raw, ok := cfg[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	str, ok := raw.(string)
	if !ok {
		return "", models.ErrInvalidConfig(key, fmt.Sprintf("must be a string, got %T", raw))
	}
	return str, nil
}

// targetKey returns the state key a step result is stored under.
// Defaults to the ID of the running step.
func targetKey(into string, scope *models.Scope) string {
	if into != "" {
		return into
	}
	return scope.StepID
}
