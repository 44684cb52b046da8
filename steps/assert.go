package steps

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/models"
)

// AssertionError is returned when an assert step's condition does not hold
type AssertionError struct {
	Condition string
	Message   string
}

func (e *AssertionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("assertion failed: %s", e.Condition)
}

type AssertStep struct {
	condition string
	message   string
	program   *vm.Program
}

func (s *AssertStep) Run(ctx context.Context, scope *models.Scope) error {
	input, state, err := scope.Snapshot()
	if err != nil {
		return err
	}
	env := map[string]any{
		"input": input,
		"state": state,
		"vars":  scope.Variables,
	}

	out, err := expr.Run(s.program, env)
	if err != nil {
		return fmt.Errorf("failed to evaluate condition '%s': %w", s.condition, err)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return fmt.Errorf("condition must be a boolean, got %T", out)
	}
	if !ok {
		return &AssertionError{Condition: s.condition, Message: s.message}
	}
	return nil
}

func init() {
	builder.RegisterActionType("assert", "Fails the routine unless an expr-lang condition is true", func(cfg map[string]any) (models.Action, error) {
		condition, ok := cfg["condition"].(string)
		if !ok || condition == "" {
			return nil, models.ErrMissingConfig("condition")
		}

		message, err := stringConfig(cfg, "message", "")
		if err != nil {
			return nil, err
		}

		program, err := expr.Compile(condition)
		if err != nil {
			return nil, fmt.Errorf("invalid condition '%s': %w", condition, err)
		}

		return &AssertStep{
			condition: condition,
			message:   message,
			program:   program,
		}, nil
	})
}
