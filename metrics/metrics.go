package metrics

import (
	"context"

	"go.opentelemetry.io/otel/exporters/prometheus"
	otelapi "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	metricsNamespace = "ethcall"
)

var (
	meter otelapi.Meter
)

func Setup(
	ctx context.Context,
	observe func(ctx context.Context, o otelapi.Observer) error,
) error {
	for _, setup := range []func(context.Context) error{
		setupMeter, // must come first
		setupCallSuccessCount,
		setupCallFailureCount,
		setupCallLatency,
		setupResponseSize,
		setupCyclesCharged,
		setupCallsInFlight,
	} {
		if err := setup(ctx); err != nil {
			return err
		}
	}

	if observe == nil {
		return nil
	}

	_, err := meter.RegisterCallback(observe,
		CallsInFlight,
	)
	if err != nil {
		return err
	}

	return nil
}

func setupMeter(ctx context.Context) error {
	res, err := resource.New(ctx)
	if err != nil {
		return err
	}

	exporter, err := prometheus.New(
		prometheus.WithNamespace(metricsNamespace),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return err
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)

	meter = provider.Meter(metricsNamespace)

	return nil
}

func setupCallSuccessCount(ctx context.Context) error {
	m, err := meter.Int64Counter("call_success_count",
		otelapi.WithDescription("count of eth_call requests that returned a result"),
	)
	if err != nil {
		return err
	}
	CallSuccessCount = m
	return nil
}

func setupCallFailureCount(ctx context.Context) error {
	m, err := meter.Int64Counter("call_failure_count",
		otelapi.WithDescription("count of eth_call requests that failed"),
	)
	if err != nil {
		return err
	}
	CallFailureCount = m
	return nil
}

func setupCallLatency(ctx context.Context) error {
	m, err := meter.Int64Histogram("call_latency",
		otelapi.WithDescription("latency of eth_call requests"),
		otelapi.WithUnit("ms"),
		otelapi.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000),
	)
	if err != nil {
		return err
	}
	CallLatency = m
	return nil
}

func setupResponseSize(ctx context.Context) error {
	m, err := meter.Int64Histogram("response_size",
		otelapi.WithDescription("size of eth_call responses"),
		otelapi.WithUnit("By"),
		otelapi.WithExplicitBucketBoundaries(64, 128, 256, 512, 1024, 2048),
	)
	if err != nil {
		return err
	}
	ResponseSize = m
	return nil
}

func setupCyclesCharged(ctx context.Context) error {
	m, err := meter.Int64Counter("cycles_charged",
		otelapi.WithDescription("cost units attached to outbound calls"),
	)
	if err != nil {
		return err
	}
	CyclesCharged = m
	return nil
}

func setupCallsInFlight(ctx context.Context) error {
	m, err := meter.Int64ObservableGauge("calls_in_flight",
		otelapi.WithDescription("count of eth_call requests currently awaiting a response"),
	)
	if err != nil {
		return err
	}
	CallsInFlight = m
	return nil
}
