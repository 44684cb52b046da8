package config

import (
	"os"
	"path/filepath"
	"testing"
)

const weeklyRoutineYAML = `
name: release-checklist
description: Ship the weekly release
variables:
  team: core
triggers:
  - type: time
    description: Run before the release window
    schedule: Every Friday at 3:00 PM ET
steps:
  - id: collect
    title: Collect merged changes
    action: js
    config:
      code: "return {count: input.changes.length}"
  - id: announce
    title: Announce the release in the team channel
finalize:
  output:
    summary: "$js: 'shipped ' + state.count"
`

func TestParseRoutine(t *testing.T) {
	cfg, err := ParseRoutine([]byte(weeklyRoutineYAML))
	if err != nil {
		t.Fatalf("ParseRoutine failed: %v", err)
	}

	if cfg.Name != "release-checklist" {
		t.Errorf("Expected name 'release-checklist', got '%s'", cfg.Name)
	}

	if len(cfg.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(cfg.Steps))
	}

	if cfg.Steps[0].IsManual() {
		t.Error("Expected first step to be automated")
	}

	if !cfg.Steps[1].IsManual() {
		t.Error("Expected second step to be manual")
	}

	if cfg.Steps[0].Config["code"] != "return {count: input.changes.length}" {
		t.Errorf("Unexpected step config: %v", cfg.Steps[0].Config)
	}

	if len(cfg.Triggers) != 1 || cfg.Triggers[0].Schedule != "Every Friday at 3:00 PM ET" {
		t.Errorf("Unexpected triggers: %+v", cfg.Triggers)
	}

	if cfg.Variables["team"] != "core" {
		t.Errorf("Expected variable team=core, got %v", cfg.Variables["team"])
	}

	if _, ok := cfg.Finalize.Output["summary"]; !ok {
		t.Error("Expected finalize output 'summary'")
	}
}

func TestParseRoutine_InvalidYAML(t *testing.T) {
	if _, err := ParseRoutine([]byte("steps: [")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestStepConfig_DisplayTitle(t *testing.T) {
	tests := []struct {
		step     StepConfig
		expected string
	}{
		{StepConfig{ID: "review", Title: "Review notifications"}, "Review notifications"},
		{StepConfig{ID: "review"}, "review"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.step.DisplayTitle(); got != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, got)
			}
		})
	}
}

func TestLoadRoutineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.yaml")
	if err := os.WriteFile(path, []byte(weeklyRoutineYAML), 0o644); err != nil {
		t.Fatalf("failed to write routine file: %v", err)
	}

	cfg, err := LoadRoutineFile(path)
	if err != nil {
		t.Fatalf("LoadRoutineFile failed: %v", err)
	}

	if cfg.Name != "release-checklist" {
		t.Errorf("Expected name 'release-checklist', got '%s'", cfg.Name)
	}
}

func TestLoadRoutineFile_Missing(t *testing.T) {
	if _, err := LoadRoutineFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
