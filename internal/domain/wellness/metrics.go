package wellness

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "pet-health-core/wellness"

type instruments struct {
	entries       metric.Int64Counter
	rejected      metric.Int64Counter
	alerts        metric.Int64Counter
	alertFailures metric.Int64Counter
}

func newInstruments() instruments {
	m := otel.Meter(meterName)
	return instruments{
		entries:       counter(m, "wellness.entries.recorded", "Wellness entries persisted"),
		rejected:      counter(m, "wellness.entries.rejected", "Wellness entries rejected by validation"),
		alerts:        counter(m, "wellness.alerts.raised", "Wellness alerts created"),
		alertFailures: counter(m, "wellness.alerts.failures", "Alert evaluation or delivery failures"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (i instruments) entryRecorded(ctx context.Context, metricType MetricType) {
	i.entries.Add(ctx, 1, metric.WithAttributes(attribute.String("metric", string(metricType))))
}

func (i instruments) entryRejected(ctx context.Context, metricType MetricType) {
	i.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("metric", string(metricType))))
}

func (i instruments) alertRaised(ctx context.Context, a Alert) {
	i.alerts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(a.Type)),
		attribute.String("severity", string(a.Severity)),
	))
}

func (i instruments) alertFailed(ctx context.Context, stage string) {
	i.alertFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
