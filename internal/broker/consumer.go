package broker

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"market-chat-service/internal/models"
	"market-chat-service/internal/observability"
)

// Consumer subscribes to every room broadcast topic and hands decoded
// messages to the local fan-out. Each service instance runs its own
// exclusive queue, which is how horizontally scaled instances all deliver
// to their attached connections.
type Consumer struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	handler func(models.Message)
}

// NewConsumer declares an exclusive auto-delete queue bound to the room
// topic pattern and returns a consumer ready to run.
func NewConsumer(amqpURL, exchange string, handler func(models.Message)) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err := ch.QueueBind(queue.Name, SubscribePrefix+".*", exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Consumer{conn: conn, ch: ch, queue: queue.Name, handler: handler}, nil
}

// Run consumes until the context is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.Consume(c.queue, "", true, true, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			var msg models.Message
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				log.Printf("broker consume decode failed: %v", err)
				observability.IncBrokerConsumeError()
				continue
			}
			c.handler(msg)
		}
	}
}

// Close tears down the channel and connection.
func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
