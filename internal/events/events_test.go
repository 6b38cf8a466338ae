package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	_, ch1, unsub1 := bus.Subscribe(4)
	_, ch2, unsub2 := bus.Subscribe(4)
	defer unsub1()
	defer unsub2()

	ev := New(MetricsCalculated, "session-1", map[string]interface{}{"cadence": 180.0})
	require.NoError(t, bus.Publish(context.Background(), ev))

	got1 := <-ch1
	got2 := <-ch2
	assert.Equal(t, ev.EventID, got1.EventID)
	assert.Equal(t, ev.EventID, got2.EventID)
	assert.Equal(t, MetricsCalculated, got1.Type)

	published, dropped := bus.Stats()
	assert.Equal(t, uint64(1), published)
	assert.Zero(t, dropped)
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	_, ch, unsub := bus.Subscribe(1)
	defer unsub()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, New(SessionCreated, "s", nil)))
	require.NoError(t, bus.Publish(ctx, New(PoseDataIngested, "s", nil)))

	// Buffer of one: the second publish must have been dropped, not queued.
	_, dropped := bus.Stats()
	assert.Equal(t, uint64(1), dropped)

	first := <-ch
	assert.Equal(t, SessionCreated, first.Type)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected buffered event %s", ev.Type)
	default:
	}
}

func TestBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	_, ch, unsub := bus.Subscribe(1)
	assert.Equal(t, 1, bus.SubscriberCount())

	unsub()
	assert.Equal(t, 0, bus.SubscriberCount())

	// Channel closes so ranging subscribers terminate.
	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is harmless.
	unsub()
}

func TestNewEventIdentity(t *testing.T) {
	t.Parallel()

	a := New(ProcessingFailed, "session-9", nil)
	b := New(ProcessingFailed, "session-9", nil)
	assert.NotEqual(t, a.EventID, b.EventID)
	assert.False(t, a.Timestamp.IsZero())
	assert.Equal(t, "session-9", a.SessionID)
}
