package models

import (
	"fmt"
	"maps"
	"sync"

	"github.com/mitchellh/copystructure"
)

// Scope is the view of a routine run handed to an Action
type Scope struct {
	RunID     string         // Unique run ID (shared by all steps of a run)
	StepID    string         // ID of the step being executed
	Input     map[string]any // Routine input (read-only)
	State     map[string]any // Shared state written by previous steps
	Variables map[string]any // Global routine variables
	Secrets   map[string]any // Global routine secrets
	mu        sync.RWMutex   // Guards State
}

// Get returns a state value
func (s *Scope) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// Set writes a state value, allocating the state map if needed
func (s *Scope) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == nil {
		s.State = make(map[string]any)
	}
	s.State[key] = value
}

// Merge copies all values into the state
func (s *Scope) Merge(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == nil {
		s.State = make(map[string]any, len(values))
	}
	maps.Copy(s.State, values)
}

// Snapshot returns deep copies of input and state, safe to hand to evaluators.
// Writes made through the copies never reach the scope.
func (s *Scope) Snapshot() (input, state map[string]any, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if input, err = CopyValues(s.Input); err != nil {
		return nil, nil, err
	}
	if state, err = CopyValues(s.State); err != nil {
		return nil, nil, err
	}
	return input, state, nil
}

// CopyValues returns a deep copy of values; nested maps and slices are not shared
func CopyValues(values map[string]any) (map[string]any, error) {
	if values == nil {
		return nil, nil
	}
	c, err := copystructure.Copy(values)
	if err != nil {
		return nil, fmt.Errorf("failed to copy values: %w", err)
	}
	return c.(map[string]any), nil
}
