package models

import (
	"time"
)

// EventType represents the type of event emitted during a routine run
type EventType string

const (
	// Run events
	EventRunStarted    EventType = "run.started"
	EventRunFinalizing EventType = "run.finalizing"
	EventRunSucceeded  EventType = "run.succeeded"
	EventRunFailed     EventType = "run.failed"

	// Step events
	EventStepStarted   EventType = "step.started"
	EventStepCompleted EventType = "step.completed"
	EventStepManual    EventType = "step.manual"
	EventStepFailed    EventType = "step.failed"
)

// Phase is the position of a run in its lifecycle:
//
//	not_started -> running -> finalizing -> succeeded
//	running -> failed, finalizing -> failed
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseRunning    Phase = "running"
	PhaseFinalizing Phase = "finalizing"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether no further transitions can happen
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Event represents a generic run event
type Event struct {
	Type      EventType      `json:"type"`
	Phase     Phase          `json:"phase"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// EventListener is the interface to implement to receive run events
type EventListener interface {
	OnEvent(event Event)
}

// EventListenerFunc is an adapter to use functions as EventListener
type EventListenerFunc func(event Event)

func (f EventListenerFunc) OnEvent(event Event) {
	f(event)
}
