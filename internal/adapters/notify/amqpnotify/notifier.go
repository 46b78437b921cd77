// Package amqpnotify publica las alertas de wellness en RabbitMQ para el
// despachador de push notifications.
package amqpnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"pet-health-core/internal/domain/wellness"
)

const DefaultExchange = "wellness_alerts"

// Channel es el subconjunto de *amqp.Channel que usamos.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Notifier struct {
	ch       Channel
	exchange string
	now      func() time.Time
}

// New declara el exchange (topic, durable) y devuelve el notifier.
func New(ch Channel, exchange string) (*Notifier, error) {
	if ch == nil {
		return nil, errors.New("amqp channel required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}
	return &Notifier{ch: ch, exchange: exchange, now: time.Now}, nil
}

type AlertMessage struct {
	AlertID         string  `json:"alert_id"`
	PetID           string  `json:"pet_id"`
	OwnerUserID     string  `json:"owner_user_id"`
	Type            string  `json:"type"`
	Severity        string  `json:"severity"`
	Metric          string  `json:"metric"`
	Message         string  `json:"message"`
	PercentageDelta float64 `json:"percentage_delta"`
	TriggeredAt     int64   `json:"triggered_at"`
}

// RoutingKey: alert.<severity>, para que el consumidor pueda filtrar por urgencia.
func RoutingKey(a wellness.Alert) string {
	return "alert." + string(a.Severity)
}

func (n *Notifier) NotifyAlert(ctx context.Context, a wellness.Alert) error {
	body, err := json.Marshal(AlertMessage{
		AlertID:         a.ID,
		PetID:           a.PetID,
		OwnerUserID:     a.OwnerID,
		Type:            string(a.Type),
		Severity:        string(a.Severity),
		Metric:          string(a.Metric),
		Message:         a.Message,
		PercentageDelta: a.PercentageDelta,
		TriggeredAt:     a.TriggeredAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encoding alert %s: %w", a.ID, err)
	}

	err = n.ch.PublishWithContext(ctx, n.exchange, RoutingKey(a), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    a.ID,
		Timestamp:    n.now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing alert %s: %w", a.ID, err)
	}
	return nil
}

// Dial abre conexión y canal. close libera ambos.
func Dial(url string) (ch *amqp.Channel, closeFn func() error, err error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err = conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return ch, func() error {
		_ = ch.Close()
		return conn.Close()
	}, nil
}
