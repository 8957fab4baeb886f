package pubsub

import (
	"context"
)

// Message is the structure passed between relay components on the bus.
// It is intentionally simple to act as a wrapper for raw event payloads.
type Message struct {
	// Topic identifies the stream the message belongs to (e.g., "relay.outbound").
	Topic string
	// ConnID identifies the connection the message originated from, if any.
	ConnID string
	// Payload contains the raw event data (JSON).
	Payload []byte
	// Metadata carries routing context (room, delivery scope, exclusions).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with
	// the handler. The subscription runs until the context is canceled.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
