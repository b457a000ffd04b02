package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type publisher struct {
	conn     Connection
	exchange string
}

// NewPublisher publishes domain events to a durable topic exchange, routed by event type.
func NewPublisher(conn Connection, exchange string) interfaces.EventPublisher {
	return &publisher{conn: conn, exchange: exchange}
}

func (p *publisher) PublishOrderEvent(ctx context.Context, msg interfaces.OrderEvent) error {
	return p.publish(ctx, string(msg.Type), msg)
}

func (p *publisher) PublishStockEvent(ctx context.Context, msg interfaces.StockEvent) error {
	return p.publish(ctx, string(msg.Type), msg)
}

func (p *publisher) publish(ctx context.Context, routingKey string, msg any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch, p.exchange); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func declareExchange(ch Channel, name string) error {
	if err := ch.ExchangeDeclare(name, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}
