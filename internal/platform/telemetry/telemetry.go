// Package telemetry instala el MeterProvider global de OpenTelemetry.
// Sin endpoint OTLP los instrumentos quedan en el provider noop por defecto.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

type Options struct {
	Endpoint    string // host:port, sin esquema
	ServiceName string
	Insecure    bool
	Interval    time.Duration
}

// ShutdownFunc hace flush de las métricas pendientes.
type ShutdownFunc func(context.Context) error

// Setup registra un MeterProvider con exporter OTLP/HTTP.
// Si no hay endpoint devuelve un shutdown no-op.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	insecure := opts.Insecure
	if strings.HasPrefix(endpoint, "http://") {
		insecure = true
	}
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")

	expOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		expOpts = append(expOpts, otlpmetrichttp.WithInsecure())
	}

	exp, err := otlpmetrichttp.New(ctx, expOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create otlp exporter: %w", err)
	}

	name := strings.TrimSpace(opts.ServiceName)
	if name == "" {
		name = "pet-health-core"
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", name),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, metric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}
