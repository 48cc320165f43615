package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/shoplens/shoplens/pkg/observability/logger"
)

// RuntimeBus is an in-process EventBus. Publish dispatches synchronously
// to every subscribed handler, so a caller returning from Publish knows
// the write-path side effects (identity upserts, cache flushes) have
// been applied. Handler panics are contained per delivery.
type RuntimeBus struct {
	log logger.Logger

	mu       sync.RWMutex
	handlers map[string][]MessageHandler
	closed   bool
}

// NewRuntimeBus creates an empty in-process bus.
func NewRuntimeBus(log logger.Logger) *RuntimeBus {
	return &RuntimeBus{
		log:      log,
		handlers: make(map[string][]MessageHandler),
	}
}

// Publish delivers the message to every handler subscribed to topic.
// The first handler error is returned after all handlers have run.
func (b *RuntimeBus) Publish(ctx context.Context, topic string, message *Message) error {
	if message == nil {
		return fmt.Errorf("message is required")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("event bus is closed")
	}
	handlers := append([]MessageHandler{}, b.handlers[topic]...)
	b.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		if err := b.dispatch(ctx, topic, handler, message); err != nil {
			b.log.Error("event handler failed",
				"topic", topic,
				"message_id", message.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Subscribe registers a handler for the topic.
func (b *RuntimeBus) Subscribe(_ context.Context, topic string, handler MessageHandler) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("event bus is closed")
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Unsubscribe removes all handlers for the topic.
func (b *RuntimeBus) Unsubscribe(topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, topic)
	return nil
}

// Close stops accepting publishes and drops all subscriptions.
func (b *RuntimeBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string][]MessageHandler)
	return nil
}

func (b *RuntimeBus) dispatch(ctx context.Context, topic string, handler MessageHandler, message *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic on topic %s: %v", topic, r)
		}
	}()
	return handler(ctx, message)
}
