package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"github.com/drewbarontini/system-runner/models"
)

// eventBus delivers the events of a single run to the registered listeners (private).
// Events are dispatched from one goroutine so listeners observe them in emission order.
type eventBus struct {
	runID     string
	pipeline  string
	listeners []models.EventListener
	logger    *slog.Logger
	events    chan models.Event
	done      chan struct{}
	closeOnce sync.Once
}

// newEventBus creates a new eventBus instance (private)
func newEventBus(runID, pipeline string, listeners []models.EventListener, logger *slog.Logger) *eventBus {
	eb := &eventBus{
		runID:     runID,
		pipeline:  pipeline,
		listeners: append([]models.EventListener(nil), listeners...),
		logger:    logger,
		events:    make(chan models.Event, 64),
		done:      make(chan struct{}),
	}

	if len(eb.listeners) == 0 {
		close(eb.done)
		return eb
	}

	go eb.dispatch()
	return eb
}

func (eb *eventBus) dispatch() {
	defer close(eb.done)
	for event := range eb.events {
		for _, listener := range eb.listeners {
			eb.notify(listener, event)
		}
	}
}

// notify shields the run from a panicking listener
func (eb *eventBus) notify(listener models.EventListener, event models.Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error("Event listener panicked", "event", event.Type, "panic", r)
		}
	}()
	listener.OnEvent(event)
}

// Emit sends an event to all registered listeners
func (eb *eventBus) Emit(eventType models.EventType, phase models.Phase, data map[string]any) {
	if len(eb.listeners) == 0 {
		return
	}

	if data == nil {
		data = make(map[string]any)
	}
	data["run_id"] = eb.runID
	data["pipeline"] = eb.pipeline

	eb.events <- models.Event{
		Type:      eventType,
		Phase:     phase,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Wait stops accepting events and waits for all pending events to be processed
func (eb *eventBus) Wait() {
	eb.closeOnce.Do(func() {
		close(eb.events)
	})
	<-eb.done
}

// EmitRunStarted emits a run start event
func (eb *eventBus) EmitRunStarted(steps int) {
	eb.Emit(models.EventRunStarted, models.PhaseRunning, map[string]any{
		"steps": steps,
	})
}

// EmitStepStarted emits a step start event
func (eb *eventBus) EmitStepStarted(index int, step StepInfo) {
	eb.Emit(models.EventStepStarted, models.PhaseRunning, map[string]any{
		"step_id": step.ID,
		"index":   index,
		"title":   step.Title,
	})
}

// EmitStepCompleted emits a step completion event
func (eb *eventBus) EmitStepCompleted(index int, step StepInfo, duration time.Duration) {
	eb.Emit(models.EventStepCompleted, models.PhaseRunning, map[string]any{
		"step_id":  step.ID,
		"index":    index,
		"title":    step.Title,
		"duration": duration,
	})
}

// EmitStepManual emits an event for a step left to the operator
func (eb *eventBus) EmitStepManual(index int, step StepInfo) {
	eb.Emit(models.EventStepManual, models.PhaseRunning, map[string]any{
		"step_id":     step.ID,
		"index":       index,
		"title":       step.Title,
		"description": step.Description,
	})
}

// EmitStepFailed emits a step failure event
func (eb *eventBus) EmitStepFailed(index int, step StepInfo, err error) {
	eb.Emit(models.EventStepFailed, models.PhaseRunning, map[string]any{
		"step_id": step.ID,
		"index":   index,
		"title":   step.Title,
		"error":   err.Error(),
	})
}

// EmitRunFinalizing emits an event when all steps are done
func (eb *eventBus) EmitRunFinalizing() {
	eb.Emit(models.EventRunFinalizing, models.PhaseFinalizing, nil)
}

// EmitRunSucceeded emits a run completion event
func (eb *eventBus) EmitRunSucceeded(duration time.Duration) {
	eb.Emit(models.EventRunSucceeded, models.PhaseSucceeded, map[string]any{
		"duration": duration,
	})
}

// EmitRunFailed emits a run failure event
func (eb *eventBus) EmitRunFailed(err error, duration time.Duration) {
	eb.Emit(models.EventRunFailed, models.PhaseFailed, map[string]any{
		"error":    err.Error(),
		"duration": duration,
	})
}
