// Package events carries the processing-lifecycle notifications the service
// layer publishes: session creation, pose ingest, metrics completion, and
// processing failure. Delivery is best-effort; a subscriber that cannot
// keep up loses events rather than stalling the publisher.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gaitworks/stride.report/internal/monitoring"
)

// Type identifies what happened.
type Type string

const (
	SessionCreated    Type = "session_created"
	PoseDataIngested  Type = "pose_data_ingested"
	MetricsCalculated Type = "metrics_calculated"
	ProcessingFailed  Type = "processing_failed"
)

// Event is one notification about a session.
type Event struct {
	EventID   string                 `json:"event_id"`
	Type      Type                   `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	SessionID string                 `json:"session_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// New builds an event with a fresh ID and the current time.
func New(typ Type, sessionID string, data map[string]interface{}) Event {
	return Event{
		EventID:   uuid.New().String(),
		Type:      typ,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Data:      data,
	}
}

// Publisher delivers events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// LogPublisher writes events to the diagnostic log. It is the default when
// no subscriber infrastructure is wired up.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev Event) error {
	monitoring.Logf("event %s: session=%s id=%s", ev.Type, ev.SessionID, ev.EventID)
	return nil
}

// Bus fans events out to in-process subscribers over buffered channels.
// Publish never blocks: a subscriber whose buffer is full has the event
// dropped and counted against it.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	published   atomic.Uint64
	dropped     atomic.Uint64
}

type subscriber struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]*subscriber)}
}

// Subscribe registers a subscriber with the given buffer size and returns
// its ID, the receive channel, and an unsubscribe function. The channel is
// closed on unsubscribe.
func (b *Bus) Subscribe(buffer int) (string, <-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscriber{ch: make(chan Event, buffer)}
	id := uuid.New().String()

	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(s.ch)
		}
	}
	return id, sub.ch, unsubscribe
}

// Publish delivers ev to every subscriber without blocking. It never
// returns an error; the Publisher signature is for interchangeability with
// external transports.
func (b *Bus) Publish(_ context.Context, ev Event) error {
	b.published.Add(1)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, sub := range b.subscribers {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
			b.dropped.Add(1)
			monitoring.Logf("events: subscriber %s full, dropped %s for session %s", id, ev.Type, ev.SessionID)
		}
	}
	return nil
}

// Stats reports total published and dropped event counts.
func (b *Bus) Stats() (published, dropped uint64) {
	return b.published.Load(), b.dropped.Load()
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
