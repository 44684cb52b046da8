package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	pipeline "github.com/drewbarontini/system-runner"
	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
	"github.com/drewbarontini/system-runner/routines"
)

// target is a routine resolved by name or path, typed or YAML-defined
type target struct {
	name        string
	description string
	source      string // "built-in" or the YAML file
	triggers    []models.Trigger
	outline     []pipeline.StepInfo
	actions     map[string]string // step ID -> action type, YAML routines only
	run         func(ctx context.Context, decode routines.DecodeFunc, opts ...pipeline.Option) (any, error)
}

const builtinSource = "built-in"

// resolve finds a routine: a YAML file path, then a built-in routine, then a
// routine from the routines directory
func (a *app) resolve(nameOrPath string) (*target, error) {
	if isRoutineFile(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err == nil {
			// A one-off registry applies the filename fallback for unnamed routines
			cfg, err := builder.NewRoutineRegistry().LoadRoutineFile(nameOrPath)
			if err != nil {
				return nil, err
			}
			return newDynamicTarget(cfg, nameOrPath)
		}
	}

	if entry, ok := routines.Lookup(nameOrPath); ok {
		return &target{
			name:        entry.Name,
			description: entry.Description,
			source:      builtinSource,
			triggers:    entry.Triggers,
			outline:     entry.Outline,
			run:         entry.Run,
		}, nil
	}

	if cfg, ok := a.registry.Get(nameOrPath); ok {
		return newDynamicTarget(cfg, a.registry.Source(nameOrPath))
	}

	return nil, fmt.Errorf("routine '%s' not found", nameOrPath)
}

func newDynamicTarget(cfg *config.RoutineConfig, source string) (*target, error) {
	routine, err := pipeline.BuildFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build routine '%s': %w", cfg.Name, err)
	}

	actions := make(map[string]string, len(cfg.Steps))
	for _, step := range cfg.Steps {
		if !step.IsManual() {
			actions[step.ID] = step.Action
		}
	}

	return &target{
		name:        routine.Name,
		description: routine.Description,
		source:      source,
		triggers:    cfg.Triggers,
		outline:     routine.Outline(),
		actions:     actions,
		run: func(ctx context.Context, decode routines.DecodeFunc, opts ...pipeline.Option) (any, error) {
			input := map[string]any{}
			if decode != nil {
				if err := decode(&input); err != nil {
					return nil, fmt.Errorf("failed to decode input for '%s': %w", routine.Name, err)
				}
			}

			result, err := pipeline.Execute(ctx, routine, input, opts...)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}, nil
}

func isRoutineFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
