package transport

import (
	"context"

	"github.com/flashbots/ethcall/metrics"

	"go.opentelemetry.io/otel/attribute"
	otelapi "go.opentelemetry.io/otel/metric"
)

type Meter interface {
	Charge(ctx context.Context, host string, cycles uint64)
}

type metricsMeter struct {
	name string
}

// MetricsMeter accounts charged cycles in the cycles_charged counter.
func MetricsMeter(name string) Meter {
	return metricsMeter{name: name}
}

func (m metricsMeter) Charge(ctx context.Context, host string, cycles uint64) {
	metrics.CyclesCharged.Add(ctx, int64(cycles), otelapi.WithAttributes(
		attribute.KeyValue{Key: "transport", Value: attribute.StringValue(m.name)},
		attribute.KeyValue{Key: "host", Value: attribute.StringValue(host)},
	))
}
