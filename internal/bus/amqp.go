package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Bridge carries change signals between processes.
type Bridge interface {
	Publish(ctx context.Context, msg *DataChangedMessage) error
	Consume(ctx context.Context, handler func(*DataChangedMessage) error) error
	Close() error
}

// AMQPBridge fans change signals out over a fanout exchange. Every process
// binds its own exclusive queue, so a signal published by one reaches all.
type AMQPBridge struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewAMQPBridge(url, exchangeName string) (*AMQPBridge, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	bridge := &AMQPBridge{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}

	if err := bridge.setup(); err != nil {
		bridge.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return bridge, nil
}

func (b *AMQPBridge) setup() error {
	err := b.channel.ExchangeDeclare(
		b.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Exclusive server-named queue: one per process, deleted on disconnect.
	queue, err := b.channel.QueueDeclare(
		"",    // name (server generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	b.queueName = queue.Name

	err = b.channel.QueueBind(
		b.queueName,
		"", // routing key ignored by fanout
		b.exchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (b *AMQPBridge) Publish(ctx context.Context, msg *DataChangedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = b.channel.PublishWithContext(
		ctx,
		b.exchangeName,
		"",    // routing key ignored by fanout
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published change signal",
		"user_id", msg.UserID,
		"exchange", b.exchangeName)

	return nil
}

func (b *AMQPBridge) Consume(ctx context.Context, handler func(*DataChangedMessage) error) error {
	msgs, err := b.channel.Consume(
		b.queueName,
		"",    // consumer
		true,  // auto-ack: a lost signal is recovered by the periodic sweep
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Consuming change signals", "queue", b.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := DataChangedMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal change signal", "error", err)
				continue
			}

			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Change signal handler failed",
					"error", err, "user_id", msg.UserID)
			}
		}
	}
}

func (b *AMQPBridge) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
