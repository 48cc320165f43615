// Package eventbus carries domain events from the order and profile
// write paths into subscribers such as the customer identity resolver.
package eventbus

import (
	"context"
	"time"
)

// Producer publishes messages to topics.
type Producer interface {
	// Publish sends a single message to the specified topic.
	Publish(ctx context.Context, topic string, message *Message) error

	// Close gracefully shuts down the producer.
	Close() error
}

// Consumer subscribes handlers to topics.
type Consumer interface {
	// Subscribe registers a handler invoked for each message on topic.
	// Multiple handlers may subscribe to the same topic.
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error

	// Unsubscribe removes all handlers for the topic.
	Unsubscribe(topic string) error

	// Close gracefully shuts down the consumer.
	Close() error
}

// EventBus combines Producer and Consumer.
type EventBus interface {
	Producer
	Consumer
}

// Message is the transport envelope for a domain event.
type Message struct {
	// ID uniquely identifies the message.
	ID string

	// Key groups related messages (e.g. a customer identity).
	Key string

	// Value is the serialized event payload.
	Value []byte

	// Headers carries arbitrary metadata.
	Headers map[string]string

	// ContentType indicates the payload serialization format.
	ContentType string

	// Timestamp is when the message was created.
	Timestamp time.Time
}

// MessageHandler processes a consumed message. A returned error marks
// the delivery failed; the runtime bus logs it and moves on.
type MessageHandler func(ctx context.Context, msg *Message) error
