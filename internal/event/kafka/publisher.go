package kafka

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes ledger events to a single topic, keyed by entity so that all events
// about one entity kind stay ordered within a partition
type Publisher struct {
	writer MessageWriter
	logger zerolog.Logger
}

// NewPublisher creates a publisher writing to topic on the given brokers
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	})
}

// NewPublisherWithWriter wraps an existing writer
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{
		writer: w,
		logger: log.With().Str("component", "kafka_publisher").Logger(),
	}
}

// Publish implements event.Publisher
func (p *Publisher) Publish(ctx context.Context, e event.Event) {
	data, err := e.ToJSON()
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.Type).Msg("Failed to serialize event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Entity),
		Value: data,
		Time:  e.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("event_type", e.Type).Msg("Failed to publish event")
		return
	}

	p.logger.Debug().Str("event_type", e.Type).Msg("Published event")
}

// Close flushes pending messages and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
