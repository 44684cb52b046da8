package steps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

type JsonStep struct {
	data config.ValueSpec
	into string
}

func (s *JsonStep) Run(ctx context.Context, scope *models.Scope) error {
	// Resolve the JSON string (supports interpolation)
	dataResolved, err := s.data.Resolve(scope)
	if err != nil {
		return fmt.Errorf("failed to resolve data: %w", err)
	}
	dataString := fmt.Sprintf("%v", dataResolved)

	// Parse the JSON string (objects, arrays and primitive values)
	var jsonData any
	if err := json.Unmarshal([]byte(dataString), &jsonData); err != nil {
		return fmt.Errorf("failed to unmarshal JSON data: %w", err)
	}

	scope.Set(targetKey(s.into, scope), jsonData)
	return nil
}

func init() {
	builder.RegisterActionType("json", "Parses a JSON string into the state", func(cfg map[string]any) (models.Action, error) {
		data, ok := cfg["data"]
		if !ok {
			return nil, models.ErrMissingConfig("data")
		}

		into, err := stringConfig(cfg, "into", "")
		if err != nil {
			return nil, err
		}

		return &JsonStep{
			data: valueSpec(data),
			into: into,
		}, nil
	})
}
