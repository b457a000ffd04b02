package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared []string
	sent     []published
	closed   bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	return Queue{Name: "q"}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return nil
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return make(chan amqp.Delivery), nil
}

func (c *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error { return nil }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func (c *fakeChannel) NotifyClose() <-chan *amqp.Error { return make(chan *amqp.Error) }

type fakeConnection struct {
	ch *fakeChannel
}

func (c *fakeConnection) Channel() (Channel, error)       { return c.ch, nil }
func (c *fakeConnection) Close() error                    { return nil }
func (c *fakeConnection) NotifyClose() <-chan *amqp.Error { return make(chan *amqp.Error) }
func (c *fakeConnection) IsClosed() bool                  { return false }
func (c *fakeConnection) Reconnect() error                { return nil }

func TestPublisher_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(&fakeConnection{ch: ch}, "pos_events")

	err := p.PublishOrderEvent(context.Background(), interfaces.OrderEvent{
		Type:        domain.EventOrderCreated,
		OrderID:     9,
		MenuItemIDs: []int{1, 5},
		Total:       decimal.RequireFromString("7.90"),
		Timestamp:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	err = p.PublishStockEvent(context.Background(), interfaces.StockEvent{
		Type:   domain.EventStockChanged,
		Kind:   domain.StockOwnerFood,
		ItemID: 21,
	})
	require.NoError(t, err)

	require.Len(t, ch.sent, 2)
	assert.Equal(t, "pos_events", ch.sent[0].exchange)
	assert.Equal(t, "order.created", ch.sent[0].key)
	assert.Equal(t, "stock.changed", ch.sent[1].key)
	assert.Equal(t, amqp.Persistent, ch.sent[0].msg.DeliveryMode)
	assert.Contains(t, ch.declared, "pos_events:topic")
	assert.True(t, ch.closed)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.sent[0].msg.Body, &body))
	assert.Equal(t, float64(9), body["order_id"])
	assert.Equal(t, "7.9", body["total"])
}
