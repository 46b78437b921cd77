package amqpnotify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"pet-health-core/internal/domain/wellness"
)

var _ wellness.AlertNotifier = (*Notifier)(nil)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	declared []string
	sent     []published
	fail     error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if kind != "topic" || !durable {
		return errors.New("unexpected exchange kind")
	}
	f.declared = append(f.declared, name)
	return nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestNotifier_PublishesBySeverity(t *testing.T) {
	ch := &fakeChannel{}
	n, err := New(ch, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != DefaultExchange {
		t.Fatalf("expected %s declared, got %v", DefaultExchange, ch.declared)
	}

	a := wellness.Alert{
		ID:              "a-1",
		PetID:           "pet-1",
		OwnerID:         "owner-1",
		Type:            wellness.AlertWeightGain,
		Severity:        wellness.SeverityCritical,
		Metric:          wellness.MetricWeight,
		Message:         "Weight increased 25.0%",
		PercentageDelta: 25,
		TriggeredAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := n.NotifyAlert(context.Background(), a); err != nil {
		t.Fatalf("NotifyAlert: %v", err)
	}

	if len(ch.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ch.sent))
	}
	got := ch.sent[0]
	if got.exchange != DefaultExchange || got.key != "alert.critical" || got.msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected publish: %#v", got)
	}

	var body AlertMessage
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.AlertID != "a-1" || body.OwnerUserID != "owner-1" || body.Type != string(wellness.AlertWeightGain) {
		t.Fatalf("unexpected body: %#v", body)
	}
}

func TestNotifier_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	n, _ := New(&fakeChannel{fail: boom}, "alerts")
	if err := n.NotifyAlert(context.Background(), wellness.Alert{ID: "a-1", Severity: wellness.SeverityInfo}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
}
