package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

type DelayStep struct {
	delay config.ValueSpec
}

func (s *DelayStep) Run(ctx context.Context, scope *models.Scope) error {
	delayResolved, err := s.delay.Resolve(scope)
	if err != nil {
		return fmt.Errorf("failed to resolve delay: %w", err)
	}

	var delayMS int
	switch v := delayResolved.(type) {
	case int:
		delayMS = v
	case float64:
		delayMS = int(v)
	case int64:
		delayMS = int(v)
	default:
		return fmt.Errorf("delay must be a number, got %T", delayResolved)
	}

	if delayMS < 0 {
		return fmt.Errorf("delay must not be negative, got %d", delayMS)
	}

	timer := time.NewTimer(time.Duration(delayMS) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("step cancelled: %w", ctx.Err())
	}
}

func init() {
	builder.RegisterActionType("delay", "Pauses the routine for 'ms' milliseconds", func(cfg map[string]any) (models.Action, error) {
		ms, ok := cfg["ms"]
		if !ok {
			return nil, models.ErrMissingConfig("ms")
		}

		return &DelayStep{delay: valueSpec(ms)}, nil
	})
}
