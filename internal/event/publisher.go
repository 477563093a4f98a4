package event

import "context"

// Publisher delivers ledger events. Delivery failures are logged, not returned.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when events are disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (NoOpPublisher) Publish(ctx context.Context, e Event) {}

// MultiPublisher fans an event out to every wrapped publisher in order
type MultiPublisher []Publisher

// Publish forwards e to each publisher
func (m MultiPublisher) Publish(ctx context.Context, e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

// Closer is implemented by publishers holding a broker connection
type Closer interface {
	Close() error
}
