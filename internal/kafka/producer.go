package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/trade-journal/internal/models"
)

// Producer publishes entry lifecycle events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishEntryCreated publishes an entry created event
func (p *Producer) PublishEntryCreated(ctx context.Context, entry *models.Entry) error {
	return p.publish(ctx, models.EntryEvent{
		EventType: "ENTRY_CREATED",
		OwnerID:   entry.OwnerID,
		Entry:     entry,
		EntryID:   entry.ID,
		Timestamp: time.Now(),
	})
}

// PublishEntryClosed publishes an event when an entry transitions to closed
func (p *Producer) PublishEntryClosed(ctx context.Context, entry *models.Entry) error {
	return p.publish(ctx, models.EntryEvent{
		EventType: "ENTRY_CLOSED",
		OwnerID:   entry.OwnerID,
		Entry:     entry,
		EntryID:   entry.ID,
		Timestamp: time.Now(),
	})
}

// PublishEntryDeleted publishes an entry deleted event
func (p *Producer) PublishEntryDeleted(ctx context.Context, ownerID string, entryID int) error {
	return p.publish(ctx, models.EntryEvent{
		EventType: "ENTRY_DELETED",
		OwnerID:   ownerID,
		EntryID:   entryID,
		Timestamp: time.Now(),
	})
}

func (p *Producer) publish(ctx context.Context, event models.EntryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OwnerID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
