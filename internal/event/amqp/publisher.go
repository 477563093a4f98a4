package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// Publisher sends ledger events to a durable topic exchange. The routing key is the
// event type, so consumers can bind "transaction.*" or "#".
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

// NewPublisher dials the broker and declares the exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   log.With().Str("component", "amqp_publisher").Logger(),
	}, nil
}

// Publish implements event.Publisher
func (p *Publisher) Publish(ctx context.Context, e event.Event) {
	body, err := e.ToJSON()
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.Type).Msg("Failed to serialize event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		e.Type,     // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Warn().Err(err).Str("event_type", e.Type).Msg("Failed to publish event")
		return
	}

	p.logger.Debug().Str("event_type", e.Type).Str("exchange", p.exchange).Msg("Published event")
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
