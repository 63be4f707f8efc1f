package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Event is the payload published on every record mutation.
type Event struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection"`
	Record     interface{} `json:"record,omitempty"`
	RecordID   string      `json:"record_id,omitempty"`
}

// Mutation event types.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// NoopBroker discards all events. Used when no broker is configured.
type NoopBroker struct{}

func NewNoopBroker() *NoopBroker { return &NoopBroker{} }

func (NoopBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (NoopBroker) Close() error { return nil }
