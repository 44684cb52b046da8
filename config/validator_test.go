package config

import (
	"strings"
	"testing"

	"github.com/drewbarontini/system-runner/models"
)

func TestValidateRoutine(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *RoutineConfig
		wantErr string
	}{
		{
			name: "valid routine",
			cfg: &RoutineConfig{
				Name: "daily",
				Steps: []StepConfig{
					{ID: "a", Title: "A", Action: "js", Config: map[string]any{"code": "return {}"}},
					{ID: "b", Title: "B"},
				},
			},
		},
		{
			name: "empty steps are allowed",
			cfg:  &RoutineConfig{Name: "empty"},
		},
		{
			name:    "nil routine",
			cfg:     nil,
			wantErr: "routine definition is empty",
		},
		{
			name:    "missing name",
			cfg:     &RoutineConfig{},
			wantErr: "routine name is required",
		},
		{
			name: "missing step ID",
			cfg: &RoutineConfig{
				Name:  "daily",
				Steps: []StepConfig{{Title: "No ID"}},
			},
			wantErr: "step ID is required",
		},
		{
			name: "duplicate step ID",
			cfg: &RoutineConfig{
				Name:  "daily",
				Steps: []StepConfig{{ID: "a"}, {ID: "a"}},
			},
			wantErr: "duplicate step ID 'a'",
		},
		{
			name: "config without action",
			cfg: &RoutineConfig{
				Name:  "daily",
				Steps: []StepConfig{{ID: "a", Config: map[string]any{"code": "x"}}},
			},
			wantErr: "has configuration but no action",
		},
		{
			name: "empty finalize field",
			cfg: &RoutineConfig{
				Name:     "daily",
				Finalize: FinalizeConfig{Output: map[string]any{"": 1}},
			},
			wantErr: "finalize output field name cannot be empty",
		},
		{
			name: "trigger without type",
			cfg: &RoutineConfig{
				Name:     "daily",
				Triggers: []models.Trigger{{Schedule: "Every day"}},
			},
			wantErr: "type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoutine(tt.cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Expected error containing '%s', got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.wantErr, err)
			}
		})
	}
}
