package pipeline

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/drewbarontini/system-runner/models"
)

const tracerName = "github.com/drewbarontini/system-runner"

// Option configures a single Execute call
type Option func(*options)

type options struct {
	listeners []models.EventListener
	logger    *slog.Logger
	tracer    trace.Tracer
	runID     string
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

// WithListener adds a listener receiving the run's events
func WithListener(listener models.EventListener) Option {
	return func(o *options) {
		if listener != nil {
			o.listeners = append(o.listeners, listener)
		}
	}
}

// WithLogger sets the logger used for run and step logs
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the tracer used for run and step spans.
// Defaults to the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithRunID forces the ID of the run instead of generating one
func WithRunID(runID string) Option {
	return func(o *options) {
		o.runID = runID
	}
}
