package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/drewbarontini/system-runner/builder"
)

// StepKind distinguishes steps backed by logic from purely descriptive ones
type StepKind int

const (
	// StepManual is a documentation-only step performed by a human operator
	StepManual StepKind = iota
	// StepAutomated runs a RunFunc
	StepAutomated
)

func (k StepKind) String() string {
	if k == StepAutomated {
		return "automated"
	}
	return "manual"
}

// RunFunc is the logic of an automated step.
// It receives the context produced by the previous step and returns the next one.
type RunFunc[I, O any] func(ctx context.Context, sc StepContext[I, O]) (StepContext[I, O], error)

// FinalizeFunc derives the output of a run from its final context
type FinalizeFunc[I, O any] func(sc StepContext[I, O]) (O, error)

// Step is one unit of a pipeline.
// Steps hold no per-run state and can be reused across runs.
type Step[I, O any] struct {
	ID          string
	Title       string
	Description string
	kind        StepKind
	run         RunFunc[I, O]
}

// NewStep creates an automated step
func NewStep[I, O any](id, title, description string, run RunFunc[I, O]) Step[I, O] {
	return Step[I, O]{
		ID:          id,
		Title:       title,
		Description: description,
		kind:        StepAutomated,
		run:         run,
	}
}

// NewManualStep creates a step without automated logic
func NewManualStep[I, O any](id, title, description string) Step[I, O] {
	return Step[I, O]{
		ID:          id,
		Title:       title,
		Description: description,
		kind:        StepManual,
	}
}

// Kind returns whether the step is manual or automated
func (s Step[I, O]) Kind() StepKind {
	return s.kind
}

// Info returns the descriptive part of the step
func (s Step[I, O]) Info() StepInfo {
	return StepInfo{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Manual:      s.kind == StepManual,
	}
}

// SystemSpec is the immutable definition of a pipeline
type SystemSpec[I, O any] struct {
	Name        string
	Description string
	Steps       []Step[I, O] // Execution order
	Finalize    FinalizeFunc[I, O]
}

// Validate reports whether s can be executed
// - Finalize must be defined
// - Step IDs must be non-empty and unique
// - Automated steps must have a run function
func (s SystemSpec[I, O]) Validate() error {
	if s.Finalize == nil {
		return &ValidationError{Pipeline: s.Name, Reason: "finalize function is required"}
	}

	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.ID == "" {
			return &ValidationError{Pipeline: s.Name, Reason: fmt.Sprintf("step %d has an empty ID", i)}
		}
		if seen[step.ID] {
			return &ValidationError{Pipeline: s.Name, Reason: fmt.Sprintf("duplicate step ID '%s'", step.ID)}
		}
		seen[step.ID] = true

		if step.kind == StepAutomated && step.run == nil {
			return &ValidationError{Pipeline: s.Name, Reason: fmt.Sprintf("step '%s' is automated but has no run function", step.ID)}
		}
	}

	return nil
}

// Outline returns the steps' descriptive info in execution order
func (s SystemSpec[I, O]) Outline() []StepInfo {
	outline := make([]StepInfo, len(s.Steps))
	for i, step := range s.Steps {
		outline[i] = step.Info()
	}
	return outline
}

// Execute runs spec against input.
// Steps run one after the other; the first failing step aborts the run with a
// *StepError and the finalize function is not called. A failing finalize
// function yields a *FinalizeError.
func Execute[I, O any](ctx context.Context, spec SystemSpec[I, O], input I, opts ...Option) (*Result[I, O], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	runID := o.runID
	if runID == "" {
		runID = builder.GenerateRunID()
	}

	logger := o.logger.With("pipeline", spec.Name, "run_id", runID)
	bus := newEventBus(runID, spec.Name, o.listeners, logger)
	defer bus.Wait()

	ctx = ContextWithRunID(ctx, runID)
	ctx, span := o.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("pipeline.name", spec.Name),
		attribute.String("pipeline.run_id", runID),
		attribute.Int("pipeline.steps", len(spec.Steps)),
	))
	defer span.End()

	startTime := time.Now()
	sc := StepContext[I, O]{
		Input: input,
		State: State{},
	}
	process := make([]ProcessEntry, 0, len(spec.Steps))

	logger.Info("Pipeline started", "steps", len(spec.Steps))
	bus.EmitRunStarted(len(spec.Steps))

	for i, step := range spec.Steps {
		info := step.Info()

		if err := ctx.Err(); err != nil {
			return nil, failStep(bus, span, logger, startTime, i, info, err, runID, process, sc.State)
		}

		if step.kind == StepManual {
			logger.Info("Manual step", "step", step.ID, "index", i, "title", step.Title)
			bus.EmitStepManual(i, info)
			process = append(process, ProcessEntry{StepInfo: info})
			continue
		}

		logger.Info("Step started", "step", step.ID, "index", i)
		bus.EmitStepStarted(i, info)

		stepStart := time.Now()
		next, err := runStep(ctx, o.tracer, step, sc)
		elapsed := time.Since(stepStart)

		if err != nil {
			logger.Error("Step failed", "step", step.ID, "error", err, "elapsed", elapsed)
			return nil, failStep(bus, span, logger, startTime, i, info, err, runID, process, sc.State)
		}

		// Input is fixed for the run whatever the step returned
		next.Input = input
		if next.State == nil {
			next.State = State{}
		}
		sc = next

		logger.Info("Step completed", "step", step.ID, "elapsed", elapsed)
		bus.EmitStepCompleted(i, info, elapsed)
		process = append(process, ProcessEntry{StepInfo: info, Duration: elapsed})
	}

	logger.Debug("Finalizing pipeline")
	bus.EmitRunFinalizing()

	// Only the finalize result is trusted as output, and finalize sees a copy
	// of the state so its writes never reach the result
	finalState := sc.State
	sc.Output = nil
	sc.State = finalState.Clone()
	output, err := finalize(spec.Finalize, sc)
	if err != nil {
		ferr := &FinalizeError{
			Cause: err,
			Diagnostics: Diagnostics{
				RunID:     runID,
				Completed: process,
				State:     finalState.Clone(),
			},
		}
		logger.Error("Finalize failed", "error", err)
		span.RecordError(ferr)
		span.SetStatus(codes.Error, ferr.Error())
		bus.EmitRunFailed(ferr, time.Since(startTime))
		return nil, ferr
	}

	duration := time.Since(startTime)
	logger.Info("Pipeline completed", "elapsed", duration)
	bus.EmitRunSucceeded(duration)

	return &Result[I, O]{
		RunID:    runID,
		Name:     spec.Name,
		Inputs:   input,
		Process:  process,
		Output:   output,
		State:    finalState,
		Duration: duration,
	}, nil
}

// runStep invokes the step's run function inside its own span, turning panics into errors
func runStep[I, O any](ctx context.Context, tracer trace.Tracer, step Step[I, O], sc StepContext[I, O]) (next StepContext[I, O], err error) {
	ctx, span := tracer.Start(ctx, "pipeline.step "+step.ID, trace.WithAttributes(
		attribute.String("step.id", step.ID),
		attribute.String("step.title", step.Title),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return step.run(ctx, sc)
}

// finalize invokes the finalize function, turning panics into errors
func finalize[I, O any](fn FinalizeFunc[I, O], sc StepContext[I, O]) (output O, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return fn(sc)
}

func failStep(bus *eventBus, span trace.Span, logger *slog.Logger, startTime time.Time, index int, info StepInfo, cause error, runID string, process []ProcessEntry, state State) error {
	serr := &StepError{
		StepID: info.ID,
		Index:  index,
		Cause:  cause,
		Diagnostics: Diagnostics{
			RunID:     runID,
			Completed: process,
			State:     state.Clone(),
		},
	}
	logger.Warn("Pipeline aborted", "step", info.ID, "index", index)
	span.RecordError(serr)
	span.SetStatus(codes.Error, serr.Error())
	bus.EmitStepFailed(index, info, cause)
	bus.EmitRunFailed(serr, time.Since(startTime))
	return serr
}
