package steps

import (
	"context"
	"fmt"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

type SetStep struct {
	fields map[string]config.ValueSpec
}

func (s *SetStep) Run(ctx context.Context, scope *models.Scope) error {
	// Resolve every field before touching the state
	resolvedFields := make(map[string]any, len(s.fields))
	for key, iv := range s.fields {
		resolved, err := iv.Resolve(scope)
		if err != nil {
			return fmt.Errorf("failed to resolve field %s: %w", key, err)
		}
		resolvedFields[key] = resolved
	}

	scope.Merge(resolvedFields)
	return nil
}

func init() {
	builder.RegisterActionType("set", "Writes resolved fields into the state", func(cfg map[string]any) (models.Action, error) {
		fields, ok := cfg["fields"]
		if !ok {
			return nil, models.ErrMissingConfig("fields")
		}

		fieldList, ok := fields.([]any)
		if !ok {
			return nil, fmt.Errorf("fields must be a list of maps, got %T", fields)
		}

		setStepFields := make(map[string]config.ValueSpec, len(fieldList))

		for _, field := range fieldList {
			fieldMap, ok := field.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("each field must be a map, got %T", field)
			}

			name, ok := fieldMap["name"].(string)
			if !ok {
				return nil, fmt.Errorf("field map must contain a 'name' key with a string value, got %T", fieldMap["name"])
			}

			value, ok := fieldMap["value"]
			if !ok {
				return nil, fmt.Errorf("field map must contain a 'value' key, got %v", fieldMap)
			}

			setStepFields[name] = valueSpec(value)
		}

		return &SetStep{fields: setStepFields}, nil
	})
}
