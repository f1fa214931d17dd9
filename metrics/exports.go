package metrics

import (
	otelapi "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instruments are no-ops until Setup is called, so that library users that
// never export metrics don't have to care.
var (
	CallSuccessCount otelapi.Int64Counter = noop.Int64Counter{}
	CallFailureCount otelapi.Int64Counter = noop.Int64Counter{}

	CallLatency  otelapi.Int64Histogram = noop.Int64Histogram{}
	ResponseSize otelapi.Int64Histogram = noop.Int64Histogram{}

	CyclesCharged otelapi.Int64Counter = noop.Int64Counter{}

	CallsInFlight otelapi.Int64ObservableGauge = noop.Int64ObservableGauge{}
)
