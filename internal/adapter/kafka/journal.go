package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/YelzhanWeb/pos/internal/config"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

// messageWriter abstracts kafka.Writer for testability.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Journal appends every inventory movement to a topic, keyed by inventory item id so
// movements of one item stay ordered within a partition.
type Journal struct {
	writer messageWriter
}

func NewJournal(cfg config.KafkaConfig) *Journal {
	return &Journal{writer: &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}}
}

func newJournalWith(w messageWriter) *Journal {
	return &Journal{writer: w}
}

func (j *Journal) Append(ctx context.Context, m domain.InventoryMovement) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal movement: %w", err)
	}
	err = j.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strconv.Itoa(m.InventoryItemID)),
		Value: b,
	})
	if err != nil {
		return fmt.Errorf("failed to write movement: %w", err)
	}
	return nil
}

func (j *Journal) Close() error { return j.writer.Close() }

type noopJournal struct{}

// NewNoopJournal drops movements; used when kafka is disabled.
func NewNoopJournal() interfaces.MovementJournal { return noopJournal{} }

func (noopJournal) Append(context.Context, domain.InventoryMovement) error { return nil }
