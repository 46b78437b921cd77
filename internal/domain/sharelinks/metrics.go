package sharelinks

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "pet-health-core/sharelinks"

type instruments struct {
	created     metric.Int64Counter
	transitions metric.Int64Counter
	resolutions metric.Int64Counter
}

func newInstruments() instruments {
	m := otel.Meter(meterName)
	return instruments{
		created:     counter(m, "sharelinks.created", "Share links created"),
		transitions: counter(m, "sharelinks.transitions", "Share link revoke/reactivate transitions"),
		resolutions: counter(m, "sharelinks.resolutions", "Share token resolutions by outcome"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (i instruments) linkCreated(ctx context.Context) {
	i.created.Add(ctx, 1)
}

func (i instruments) linkTransition(ctx context.Context, to State) {
	i.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("to", string(to))))
}

func (i instruments) resolved(ctx context.Context, outcome string) {
	i.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
