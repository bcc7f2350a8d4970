package kafka

import (
	"context"
	"encoding/json"

	"github.com/ledgerbook/ledgerbook/internal/events"
	"github.com/segmentio/kafka-go"
)

// Publisher writes entry lifecycle events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

var _ events.Publisher = (*Publisher)(nil)

// Publish marshals the event and writes it keyed by entry ID so that events
// for one entry stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event events.EntryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntryID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
