package stepper

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/goliatone/go-stepform/pkg/schema"
)

// SubmitHandler receives the merged field set exactly once per successful
// submission.
type SubmitHandler func(fields map[string]any)

// FormStateHandler receives a snapshot after every transition.
type FormStateHandler func(state FormState)

// TabChangeHandler receives the new current tab index.
type TabChangeHandler func(tab int)

// Option configures an Engine.
type Option func(*Engine)

// WithTabSchemas registers one schema per tab, in tab order. Missing or nil
// entries make the tab trivially valid.
func WithTabSchemas(schemas ...schema.Schema) Option {
	return func(e *Engine) {
		e.tabSchemas = append([]schema.Schema(nil), schemas...)
	}
}

// WithSchema registers the combined schema checked on submission.
func WithSchema(combined schema.Schema) Option {
	return func(e *Engine) {
		e.combined = combined
	}
}

// WithInitialState resumes from a previously emitted snapshot.
func WithInitialState(state FormState) Option {
	return func(e *Engine) {
		if state != nil {
			e.initial = state.Clone()
		}
	}
}

// WithCurrentTab resumes at tab. Tabs up to it count as reached.
func WithCurrentTab(tab int) Option {
	return func(e *Engine) {
		e.current = tab
	}
}

// WithHighestReached restores how far the user has already progressed.
func WithHighestReached(tab int) Option {
	return func(e *Engine) {
		e.highest = tab
	}
}

// WithSubmitted restores the submitted flag.
func WithSubmitted(submitted bool) Option {
	return func(e *Engine) {
		e.submitted = submitted
	}
}

// WithClickDisabled locks tabs against direct jumps.
func WithClickDisabled(tabs ...int) Option {
	return func(e *Engine) {
		e.lockedInit = append(e.lockedInit, tabs...)
	}
}

// WithSessionBinding overrides where session events write the login flag and
// display name.
func WithSessionBinding(binding SessionBinding) Option {
	return func(e *Engine) {
		e.binding = binding
	}
}

// OnSubmit registers the submission handler.
func OnSubmit(fn SubmitHandler) Option {
	return func(e *Engine) {
		e.onSubmit = fn
	}
}

// OnFormStateChange registers the snapshot listener used for persistence.
func OnFormStateChange(fn FormStateHandler) Option {
	return func(e *Engine) {
		e.onFormState = fn
	}
}

// OnTabChange registers the current tab listener.
func OnTabChange(fn TabChangeHandler) Option {
	return func(e *Engine) {
		e.onTabChange = fn
	}
}

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMeterProvider overrides the otel meter provider. The global provider is
// used by default.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(e *Engine) {
		e.meterProvider = provider
	}
}

func defaultMeterProvider() metric.MeterProvider {
	return otel.GetMeterProvider()
}
