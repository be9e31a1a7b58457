// Package events publishes order lifecycle events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Topics. RabbitMQ uses them as routing keys.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicPaymentConfirmed   = "payment.confirmed"
	TopicPaymentFailed      = "payment.failed"
)

// Publisher sends an event to a topic. key orders events of one entity.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

// Envelope is the wire form of every event.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// encode wraps event in an Envelope and marshals it.
func encode(topic string, event any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	body, err := json.Marshal(Envelope{
		ID:         uuid.New(),
		Topic:      topic,
		OccurredAt: now.UTC(),
		Data:       data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return body, nil
}

// OrderCreated is published after checkout commits an order.
type OrderCreated struct {
	OrderID     uuid.UUID       `json:"orderId"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

// OrderStatusChanged is published when an admin moves an order.
type OrderStatusChanged struct {
	OrderID uuid.UUID `json:"orderId"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID string    `json:"actorId"`
}

// PaymentConfirmed is published once per order when payment is captured.
type PaymentConfirmed struct {
	OrderID     uuid.UUID       `json:"orderId"`
	UserID      string          `json:"userId"`
	PaymentID   string          `json:"paymentId"`
	PayerID     string          `json:"payerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// PaymentFailed is published when the gateway reports failure or cancellation.
type PaymentFailed struct {
	OrderID uuid.UUID `json:"orderId"`
	UserID  string    `json:"userId"`
}

// New builds the publisher selected by cfg.Broker.
func New(cfg config.EventsConfig, logger zerolog.Logger) (Publisher, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, logger), nil
	case config.BrokerRabbitMQ:
		return NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.Exchange, logger)
	case config.BrokerNone, "":
		return NewLogPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Broker)
	}
}

// logPublisher writes events to the log instead of a broker.
type logPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher returns a Publisher that only logs.
func NewLogPublisher(logger zerolog.Logger) Publisher {
	return &logPublisher{logger: logger.With().Str("publisher", "log").Logger()}
}

func (p *logPublisher) Publish(_ context.Context, topic, key string, event any) error {
	body, err := encode(topic, event, time.Now())
	if err != nil {
		return err
	}
	p.logger.Info().
		Str("topic", topic).
		Str("key", key).
		RawJSON("event", body).
		Msg("event published")
	return nil
}

func (p *logPublisher) Close() error { return nil }
