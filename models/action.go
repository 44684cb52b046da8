package models

import "context"

// Action represents the automatable logic behind a configured routine step.
// It reads and writes the shared state through the scope and returns an error
// to abort the routine.
type Action interface {
	// Run executes the action against the current scope
	Run(ctx context.Context, scope *Scope) error
}

// ActionFunc is an adapter to use functions as Action
type ActionFunc func(ctx context.Context, scope *Scope) error

func (f ActionFunc) Run(ctx context.Context, scope *Scope) error {
	return f(ctx, scope)
}
