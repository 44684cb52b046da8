package steps

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

type ForeachStep struct {
	list       config.ValueSpec
	expression *goja.Program // optional, evaluated per item
	into       string
}

func (s *ForeachStep) Run(ctx context.Context, scope *models.Scope) error {
	listResolved, err := s.list.Resolve(scope)
	if err != nil {
		return fmt.Errorf("failed to resolve list: %w", err)
	}

	list, ok := listResolved.([]any)
	if !ok {
		return fmt.Errorf("list must be an array, got %T", listResolved)
	}

	var runtime *goja.Runtime
	if s.expression != nil {
		runtime, err = config.NewJSRuntime(scope)
		if err != nil {
			return err
		}
		stop := context.AfterFunc(ctx, func() {
			runtime.Interrupt("step cancelled")
		})
		defer stop()
	}

	results := make([]any, 0, len(list))
	for i, item := range list {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step cancelled: %w", err)
		}

		if runtime == nil {
			results = append(results, map[string]any{
				"item":  item,
				"index": i,
			})
			continue
		}

		if err := runtime.Set("item", item); err != nil {
			return fmt.Errorf("failed to set item in JavaScript runtime: %w", err)
		}
		if err := runtime.Set("index", i); err != nil {
			return fmt.Errorf("failed to set index in JavaScript runtime: %w", err)
		}

		value, err := runtime.RunProgram(s.expression)
		if err != nil {
			return fmt.Errorf("expression failed on item %d: %w", i, err)
		}
		results = append(results, value.Export())
	}

	scope.Set(targetKey(s.into, scope), map[string]any{
		"items": results,
		"count": len(list),
	})
	return nil
}

func init() {
	builder.RegisterActionType("foreach", "Iterates over a list, optionally mapping each item with a JavaScript expression", func(cfg map[string]any) (models.Action, error) {
		list, ok := cfg["list"]
		if !ok {
			return nil, models.ErrMissingConfig("list")
		}

		into, err := stringConfig(cfg, "into", "")
		if err != nil {
			return nil, err
		}

		expression, err := stringConfig(cfg, "expression", "")
		if err != nil {
			return nil, err
		}

		step := &ForeachStep{
			list: valueSpec(list),
			into: into,
		}

		if expression != "" {
			program, err := goja.Compile("foreach", expression, false)
			if err != nil {
				return nil, models.ErrInvalidConfig("expression", err.Error())
			}
			step.expression = program
		}

		return step, nil
	})
}
