package stepper

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/goliatone/go-stepform/pkg/stepper"

const (
	outcomeOK      = "ok"
	outcomeBlocked = "blocked"
)

type instruments struct {
	transitions metric.Int64Counter
	failures    metric.Int64Counter
}

func newInstruments(provider metric.MeterProvider) instruments {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(instrumentationName)

	transitions, err := meter.Int64Counter("stepform.transitions",
		metric.WithDescription("Navigation and session transitions by action and outcome."),
	)
	if err != nil {
		transitions = noop.Int64Counter{}
	}
	failures, err := meter.Int64Counter("stepform.validation.failures",
		metric.WithDescription("Tab validation runs that reported at least one issue."),
	)
	if err != nil {
		failures = noop.Int64Counter{}
	}
	return instruments{transitions: transitions, failures: failures}
}

func (i instruments) transition(action, outcome string) {
	i.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func (i instruments) validationFailure(tab int) {
	i.failures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("tab", strconv.Itoa(tab)),
	))
}
