package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Consumer reads events from the queue and appends one line per event to
// Out. Malformed messages are rejected without requeue.
type Consumer struct {
	URL   string
	Queue string
	Out   io.Writer
	Log   *zap.Logger
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff whenever the connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("set QoS failed", zap.Error(err))
	}
	if err := declareQueue(ch, c.Queue); err != nil {
		return err
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handleMessage(d.Body); err != nil {
			c.Log.Error("handle message failed", zap.String("message_id", d.MessageId), zap.Error(err))
			_ = d.Nack(false, false) // do not requeue, avoids tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return errors.New("event without id or type")
	}
	c.Log.Info("event received", zap.String("event_id", ev.ID), zap.String("type", ev.Type))

	payload := "{}"
	if len(ev.Payload) > 0 {
		payload = string(ev.Payload)
	}
	line := fmt.Sprintf("[%s] %s | id=%s | payload=%s\n",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ID, payload)
	if _, err := io.WriteString(c.Out, line); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
