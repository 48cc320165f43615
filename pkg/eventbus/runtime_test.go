package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/shoplens/pkg/observability/logger"
)

func newTestBus() *RuntimeBus {
	return NewRuntimeBus(logger.NewNop())
}

func TestRuntimeBus_DeliversToAllSubscribers(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	var first, second int
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		first++
		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		second++
		return nil
	}))

	msg, err := NewJSONMessage("42", map[string]any{"order_id": 7})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, "order.placed", msg))

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestRuntimeBus_PublishIsSynchronous(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	applied := false
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		applied = true
		return nil
	}))

	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, "order.placed", msg))

	// Side effects are visible as soon as Publish returns.
	assert.True(t, applied)
}

func TestRuntimeBus_TopicIsolation(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	var calls int
	require.NoError(t, bus.Subscribe(ctx, "customer.profile.updated", func(context.Context, *Message) error {
		calls++
		return nil
	}))

	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, "order.placed", msg))

	assert.Zero(t, calls)
}

func TestRuntimeBus_FirstHandlerErrorReturnedAfterAllRun(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	errFirst := errors.New("first failure")
	var lastRan bool
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		return errFirst
	}))
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		return errors.New("second failure")
	}))
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		lastRan = true
		return nil
	}))

	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)

	publishErr := bus.Publish(ctx, "order.placed", msg)
	assert.ErrorIs(t, publishErr, errFirst)
	assert.True(t, lastRan)
}

func TestRuntimeBus_HandlerPanicIsContained(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	var survivorRan bool
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		panic("boom")
	}))
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		survivorRan = true
		return nil
	}))

	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)

	publishErr := bus.Publish(ctx, "order.placed", msg)
	require.Error(t, publishErr)
	assert.Contains(t, publishErr.Error(), "panic")
	assert.True(t, survivorRan)
}

func TestRuntimeBus_Unsubscribe(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	var calls int
	require.NoError(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error {
		calls++
		return nil
	}))
	require.NoError(t, bus.Unsubscribe("order.placed"))

	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, "order.placed", msg))

	assert.Zero(t, calls)
}

func TestRuntimeBus_ClosedBusRejectsOperations(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()
	require.NoError(t, bus.Close())

	msg, err := NewJSONMessage("", struct{}{})
	require.NoError(t, err)

	assert.Error(t, bus.Publish(ctx, "order.placed", msg))
	assert.Error(t, bus.Subscribe(ctx, "order.placed", func(context.Context, *Message) error { return nil }))
}

func TestRuntimeBus_NilMessageRejected(t *testing.T) {
	bus := newTestBus()
	assert.Error(t, bus.Publish(context.Background(), "order.placed", nil))
}

func TestNewJSONMessage(t *testing.T) {
	msg, err := NewJSONMessage("customer-9", map[string]int{"order_id": 12})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "customer-9", msg.Key)
	assert.Equal(t, jsonContentType, msg.ContentType)
	assert.False(t, msg.Timestamp.IsZero())

	var decoded map[string]int
	require.NoError(t, DecodeJSON(msg, &decoded))
	assert.Equal(t, 12, decoded["order_id"])
}

func TestDecodeJSON_NilMessage(t *testing.T) {
	var out map[string]any
	assert.Error(t, DecodeJSON(nil, &out))
}

func TestDecodeJSON_MalformedPayload(t *testing.T) {
	msg := &Message{Value: []byte("{not json")}
	var out map[string]any
	assert.Error(t, DecodeJSON(msg, &out))
}
