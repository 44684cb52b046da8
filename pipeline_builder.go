package pipeline

import (
	"context"
	"fmt"
	"maps"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

// Routine is a pipeline defined dynamically, typically from YAML.
// Both input and output are open maps.
type Routine = SystemSpec[map[string]any, map[string]any]

// finalizeStepID is the step ID exposed to finalize value expressions
const finalizeStepID = "finalize"

// BuildFromConfig builds a routine from a configuration.
// Steps without an action become manual steps.
func BuildFromConfig(cfg *config.RoutineConfig) (Routine, error) {
	if err := config.ValidateRoutine(cfg); err != nil {
		return Routine{}, err
	}

	steps := make([]Step[map[string]any, map[string]any], 0, len(cfg.Steps))
	for _, stepConfig := range cfg.Steps {
		if stepConfig.IsManual() {
			steps = append(steps, NewManualStep[map[string]any, map[string]any](
				stepConfig.ID, stepConfig.DisplayTitle(), stepConfig.Description,
			))
			continue
		}

		action, err := builder.CreateAction(stepConfig.Action, stepConfig.Config)
		if err != nil {
			return Routine{}, fmt.Errorf("step '%s': %w", stepConfig.ID, err)
		}

		steps = append(steps, NewStep(
			stepConfig.ID, stepConfig.DisplayTitle(), stepConfig.Description,
			actionRunFunc(cfg, stepConfig.ID, action),
		))
	}

	return Routine{
		Name:        cfg.Name,
		Description: cfg.Description,
		Steps:       steps,
		Finalize:    outputFinalizer(cfg),
	}, nil
}

// actionRunFunc adapts an Action to a step run function.
// The action works on deep copies of input and state, so neither the caller's
// input nor the state of a failed step can be modified.
func actionRunFunc(cfg *config.RoutineConfig, stepID string, action models.Action) RunFunc[map[string]any, map[string]any] {
	return func(ctx context.Context, sc StepContext[map[string]any, map[string]any]) (StepContext[map[string]any, map[string]any], error) {
		input, err := models.CopyValues(sc.Input)
		if err != nil {
			return sc, err
		}
		state, err := models.CopyValues(sc.State)
		if err != nil {
			return sc, err
		}
		if state == nil {
			state = map[string]any{}
		}

		scope := &models.Scope{
			RunID:     RunIDFromContext(ctx),
			StepID:    stepID,
			Input:     input,
			State:     state,
			Variables: cfg.Variables,
			Secrets:   cfg.Secrets,
		}

		if err := action.Run(ctx, scope); err != nil {
			return sc, err
		}

		sc.State = State(scope.State)
		return sc, nil
	}
}

// outputFinalizer resolves the configured output fields against the final state.
// Without output fields the output is a copy of the final state.
func outputFinalizer(cfg *config.RoutineConfig) FinalizeFunc[map[string]any, map[string]any] {
	fields := builder.ParseConfigValues(cfg.Finalize.Output)

	// Literal outputs do not depend on the run
	if len(fields) > 0 && !config.HasDynamicValues(fields) {
		static := config.ExtractStaticValues(fields)
		return func(sc StepContext[map[string]any, map[string]any]) (map[string]any, error) {
			return maps.Clone(static), nil
		}
	}

	return func(sc StepContext[map[string]any, map[string]any]) (map[string]any, error) {
		if len(fields) == 0 {
			return map[string]any(sc.State.Clone()), nil
		}

		scope := &models.Scope{
			StepID:    finalizeStepID,
			Input:     sc.Input,
			State:     sc.State.Clone(),
			Variables: cfg.Variables,
			Secrets:   cfg.Secrets,
		}

		output, err := config.ResolveAll(fields, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve output: %w", err)
		}
		return output, nil
	}
}
