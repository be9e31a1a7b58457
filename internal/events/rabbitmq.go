package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type rabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// NewRabbitMQPublisher dials amqpURL and declares a durable topic exchange.
func NewRabbitMQPublisher(amqpURL, exchange string, logger zerolog.Logger) (Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &rabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger.With().Str("publisher", "rabbitmq").Logger(),
	}, nil
}

// Publish sends the event with topic as routing key. Channels are not safe
// for concurrent use, hence the mutex.
func (p *rabbitMQPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	body, err := encode(topic, event, now)
	if err != nil {
		return err
	}

	p.mu.Lock()
	err = p.channel.Publish(p.exchange, topic, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: key,
		Timestamp:     now,
		Body:          body,
	})
	p.mu.Unlock()
	if err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Str("key", key).Msg("failed to publish event")
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}

	p.logger.Debug().Str("topic", topic).Str("key", key).Msg("event published")
	return nil
}

func (p *rabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
