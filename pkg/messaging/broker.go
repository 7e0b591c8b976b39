package messaging

import (
	"context"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope published for every domain event.
type Message struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NoopBroker drops everything. Used when no broker is configured.
type NoopBroker struct{}

func (NoopBroker) Publish(context.Context, string, interface{}) error { return nil }

func (NoopBroker) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	ch := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (NoopBroker) Close() error { return nil }
