package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const dialTimeout = 2 * time.Second

// Publisher sends domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event. It is used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// AMQPPublisher publishes events to a durable RabbitMQ queue through the
// default exchange. Each call opens its own connection, so a broker outage
// never leaves broken state behind.
type AMQPPublisher struct {
	URL   string
	Queue string
	Log   *zap.Logger
}

// NewAMQPPublisher returns a publisher for the given broker and queue.
func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{URL: url, Queue: queue, Log: log}
}

// Publish sends ev as a persistent JSON message. Errors are logged and
// returned so callers can decide to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	if err := p.publish(ctx, ev); err != nil {
		p.Log.Warn("publish event failed",
			zap.String("event_id", ev.ID), zap.String("type", ev.Type), zap.Error(err))
		return err
	}
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, ev Event) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declareQueue(ch, p.Queue); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// declareQueue makes sure the durable queue exists (idempotent).
func declareQueue(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
