package pipeline

import (
	"context"
	"maps"
)

// State is the open key/value record steps use to hand results to later steps
type State map[string]any

// Get returns the value stored under key
func (s State) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Set stores value under key in place
func (s State) Set(key string, value any) {
	s[key] = value
}

// With returns a copy of the state with key set to value.
// The receiver is left untouched.
func (s State) With(key string, value any) State {
	next := make(State, len(s)+1)
	maps.Copy(next, s)
	next[key] = value
	return next
}

// Clone returns a shallow copy of the state
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	return maps.Clone(s)
}

// Lookup returns the value stored under key converted to T.
// ok is false when the key is missing or holds another type.
func Lookup[T any](s State, key string) (T, bool) {
	v, ok := s[key].(T)
	return v, ok
}

// StepContext is the record threaded through a single run
type StepContext[I, O any] struct {
	Input  I     // Caller input, fixed for the whole run
	State  State // Intermediate results shared between steps
	Output *O    // Nil until the run is finalized
}

type runIDKey struct{}

// ContextWithRunID attaches a run ID to ctx
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the ID of the run executing the current step
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
