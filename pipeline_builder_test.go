package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
	_ "github.com/drewbarontini/system-runner/steps"
)

const weeklyReviewYAML = `
name: weekly-review
description: Review the week
variables:
  team: platform
steps:
  - id: review-board
    title: Review the board
    description: Walk through every open card
  - id: seed
    title: Seed counters
    action: set
    config:
      fields:
        - name: a
          value: 1
  - id: derive
    title: Derive b
    action: js
    config:
      code: "return { b: state.a + 1 };"
  - id: check
    action: assert
    config:
      condition: "state.b == 2"
finalize:
  output:
    sum: "$js: state.b"
    team: "$var:team"
`

func TestBuildFromConfig(t *testing.T) {
	cfg, err := config.ParseRoutine([]byte(weeklyReviewYAML))
	if err != nil {
		t.Fatalf("Failed to parse routine: %v", err)
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	if routine.Name != "weekly-review" || len(routine.Steps) != 4 {
		t.Fatalf("Unexpected routine: %s with %d steps", routine.Name, len(routine.Steps))
	}
	if routine.Steps[0].Kind() != StepManual {
		t.Error("Expected step without action to be manual")
	}
	if routine.Steps[3].Title != "check" {
		t.Errorf("Expected title to fall back to ID, got %q", routine.Steps[3].Title)
	}

	result, err := Execute(context.Background(), routine, map[string]any{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := map[string]any{"sum": int64(2), "team": "platform"}
	if !reflect.DeepEqual(result.Output, want) {
		t.Errorf("Expected output %v, got %v", want, result.Output)
	}
	if !result.Process[0].Manual {
		t.Error("Expected manual entry in process")
	}
}

func TestBuildFromConfig_OutputDefaultsToState(t *testing.T) {
	cfg := &config.RoutineConfig{
		Name: "copy",
		Steps: []config.StepConfig{
			{ID: "greet", Action: "template", Config: map[string]any{"template": "hi {{.input.name}}"}},
		},
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	result, err := Execute(context.Background(), routine, map[string]any{"name": "sam"}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Output, map[string]any{"greet": "hi sam"}) {
		t.Errorf("Expected output to copy state, got %v", result.Output)
	}
}

func TestBuildFromConfig_ActionSeesRunID(t *testing.T) {
	cfg := &config.RoutineConfig{
		Name: "ids",
		Steps: []config.StepConfig{
			{ID: "meta", Action: "js", Config: map[string]any{"code": "return ctx._execution;", "into": "exec"}},
		},
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	result, err := Execute(context.Background(), routine, nil, WithLogger(quietLogger()), WithRunID("run_abc"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := map[string]any{"id": "run_abc", "step": "meta"}
	if got := result.Output["exec"]; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBuildFromConfig_FailedActionKeepsState(t *testing.T) {
	cfg := &config.RoutineConfig{
		Name: "fails",
		Steps: []config.StepConfig{
			{ID: "seed", Action: "set", Config: map[string]any{"fields": []any{map[string]any{"name": "a", "value": 1}}}},
			{ID: "fetch", Action: "js", Config: map[string]any{"code": "state.a = 99; throw new Error('network down');"}},
		},
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	_, err = Execute(context.Background(), routine, map[string]any{}, WithLogger(quietLogger()))

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Expected *StepError, got %v", err)
	}
	if stepErr.StepID != "fetch" {
		t.Errorf("Expected failing step 'fetch', got %s", stepErr.StepID)
	}
	if v := stepErr.Diagnostics.State["a"]; v != 1 {
		t.Errorf("Expected a=1 in diagnostics, got %v", v)
	}
}

func TestBuildFromConfig_InputIsNotModified(t *testing.T) {
	cfg := &config.RoutineConfig{
		Name: "reads-input",
		Steps: []config.StepConfig{
			{ID: "touch", Action: "js", Config: map[string]any{"code": "input.nested.x = 42; input.extra = true; return null;"}},
			{ID: "read", Action: "js", Config: map[string]any{"code": "return { x: input.nested.x, extra: input.extra === true };"}},
		},
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	input := map[string]any{"nested": map[string]any{"x": 1}}
	result, err := Execute(context.Background(), routine, input, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := map[string]any{"nested": map[string]any{"x": 1}}
	if !reflect.DeepEqual(input, want) {
		t.Errorf("Expected caller input %v, got %v", want, input)
	}
	if x := result.State["x"]; x != int64(1) {
		t.Errorf("Expected later step to read x=1, got %v", x)
	}
	if extra := result.State["extra"]; extra != false {
		t.Errorf("Expected later step not to see extra, got %v", extra)
	}
}

func TestBuildFromConfig_FailedActionKeepsNestedState(t *testing.T) {
	cfg := &config.RoutineConfig{
		Name: "fails",
		Steps: []config.StepConfig{
			{ID: "seed", Action: "js", Config: map[string]any{"code": "return { obj: { a: 1 }, list: [1, 2] };"}},
			{ID: "fetch", Action: "js", Config: map[string]any{"code": "state.obj.a = 99; state.list[0] = 7; throw new Error('x');"}},
		},
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	_, err = Execute(context.Background(), routine, map[string]any{}, WithLogger(quietLogger()))

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Expected *StepError, got %v", err)
	}

	want := State{
		"obj":  map[string]any{"a": int64(1)},
		"list": []any{int64(1), int64(2)},
	}
	if !reflect.DeepEqual(stepErr.Diagnostics.State, want) {
		t.Errorf("Expected diagnostics state %v, got %v", want, stepErr.Diagnostics.State)
	}
}

func TestBuildFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.RoutineConfig
	}{
		{"nil config", nil},
		{"missing name", &config.RoutineConfig{}},
		{"unknown action", &config.RoutineConfig{
			Name:  "x",
			Steps: []config.StepConfig{{ID: "a", Action: "teleport"}},
		}},
		{"invalid action config", &config.RoutineConfig{
			Name:  "x",
			Steps: []config.StepConfig{{ID: "a", Action: "js"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildFromConfig(tt.cfg); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	_, err := BuildFromConfig(tests[2].cfg)
	var unknown *models.UnknownActionError
	if !errors.As(err, &unknown) {
		t.Errorf("Expected *UnknownActionError, got %v", err)
	}
}

func TestBuildFromConfig_StaticOutput(t *testing.T) {
	cfg := &config.RoutineConfig{
		Name:     "static",
		Steps:    []config.StepConfig{{ID: "think", Title: "Think about it"}},
		Finalize: config.FinalizeConfig{Output: map[string]any{"done": true}},
	}

	routine, err := BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build routine: %v", err)
	}

	for i := 0; i < 2; i++ {
		result, err := Execute(context.Background(), routine, nil, WithLogger(quietLogger()))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !reflect.DeepEqual(result.Output, map[string]any{"done": true}) {
			t.Errorf("Unexpected output: %v", result.Output)
		}
		result.Output["done"] = false
	}
}
