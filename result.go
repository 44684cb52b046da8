package pipeline

import "time"

// StepInfo is the human-readable description of a step
type StepInfo struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Manual      bool   `yaml:"manual" json:"manual"`
}

// ProcessEntry records a step that was executed (or handed to the operator)
type ProcessEntry struct {
	StepInfo `yaml:",inline"`
	Duration time.Duration `yaml:"duration" json:"duration"`
}

// Result bundles what went in, what ran and what came out of a run
type Result[I, O any] struct {
	RunID    string         `yaml:"run_id" json:"run_id"`
	Name     string         `yaml:"name" json:"name"`
	Inputs   I              `yaml:"inputs" json:"inputs"`
	Process  []ProcessEntry `yaml:"process" json:"process"`
	Output   O              `yaml:"output" json:"output"`
	State    State          `yaml:"state,omitempty" json:"state,omitempty"`
	Duration time.Duration  `yaml:"duration" json:"duration"`
}

// Titles returns the titles of the executed steps in order
func (r *Result[I, O]) Titles() []string {
	titles := make([]string, len(r.Process))
	for i, entry := range r.Process {
		titles[i] = entry.Title
	}
	return titles
}
