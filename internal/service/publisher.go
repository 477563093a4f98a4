package service

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
)

// eventSource is embedded by services that announce ledger changes
type eventSource struct {
	eventPublisher event.Publisher
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *eventSource) SetEventPublisher(publisher event.Publisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes an event if a publisher is configured
func (s *eventSource) publishEvent(ctx context.Context, e event.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ctx, e)
	}
}
