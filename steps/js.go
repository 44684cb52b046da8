package steps

import (
	"context"
	"fmt"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

type JsStep struct {
	code string
	into string
}

func (s *JsStep) Run(ctx context.Context, scope *models.Scope) error {
	runtime, err := config.NewJSRuntime(scope)
	if err != nil {
		return err
	}

	// Abort long-running scripts when the run is cancelled
	stop := context.AfterFunc(ctx, func() {
		runtime.Interrupt("step cancelled")
	})
	defer stop()

	// Wrap the code in an anonymous function to allow return usage
	// The user can write: return { key: "value" };
	// It gets transformed to: (function() { return { key: "value" }; })()
	wrappedCode := "(function() {\n" + s.code + "\n})()"

	result, err := runtime.RunString(wrappedCode)
	if err != nil {
		return fmt.Errorf("JavaScript execution error: %w", err)
	}

	output := result.Export()

	if s.into != "" {
		scope.Set(s.into, output)
		return nil
	}

	switch v := output.(type) {
	case nil:
		// Nothing returned, state unchanged
		return nil
	case map[string]any:
		scope.Merge(v)
		return nil
	default:
		scope.Set(targetKey("", scope), v)
		return nil
	}
}

func init() {
	builder.RegisterActionType("js", "Runs JavaScript; an object result is merged into the state", func(cfg map[string]any) (models.Action, error) {
		code, ok := cfg["code"].(string)
		if !ok {
			return nil, models.ErrMissingConfig("code")
		}

		into, err := stringConfig(cfg, "into", "")
		if err != nil {
			return nil, err
		}

		return &JsStep{
			code: code,
			into: into,
		}, nil
	})
}
