package service

import (
	"context"
	"log"
	"sync"
	"time"

	"digitalthread/internal/domain"
)

// EventType defines the type of event
type EventType string

const (
	EventSnapshotReloaded     EventType = "snapshot_reloaded"
	EventSnapshotReloadFailed EventType = "snapshot_reload_failed"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ReloadCause names what asked for a reload
type ReloadCause string

const (
	CauseManual  ReloadCause = "manual"
	CauseStartup ReloadCause = "startup"
	CauseWatch   ReloadCause = "watch"
	CauseAPI     ReloadCause = "api"
)

// ReloadTrigger travels with the context given to Reload and is echoed in
// both reload events
type ReloadTrigger struct {
	Cause     ReloadCause `json:"cause"`
	RequestID string      `json:"requestId,omitempty"`
}

func (t ReloadTrigger) String() string {
	if t.RequestID == "" {
		return string(t.Cause)
	}
	return string(t.Cause) + " " + t.RequestID
}

type reloadTriggerKey struct{}

// WithReloadTrigger tags ctx with the trigger of the reload it is passed to
func WithReloadTrigger(ctx context.Context, t ReloadTrigger) context.Context {
	return context.WithValue(ctx, reloadTriggerKey{}, t)
}

// TriggerFrom returns the trigger attached to ctx, or CauseManual
func TriggerFrom(ctx context.Context) ReloadTrigger {
	if t, ok := ctx.Value(reloadTriggerKey{}).(ReloadTrigger); ok && t.Cause != "" {
		return t
	}
	return ReloadTrigger{Cause: CauseManual}
}

// ReloadSummary is the payload of EventSnapshotReloaded
type ReloadSummary struct {
	ReloadTrigger
	Digest         string              `json:"digest"`
	PreviousDigest string              `json:"previousDigest,omitempty"`
	Changed        bool                `json:"changed"`
	Artifacts      int                 `json:"artifacts"`
	Links          int                 `json:"links"`
	Dangling       int                 `json:"dangling"`
	Counts         map[domain.Kind]int `json:"counts"`
	LoadedAt       time.Time           `json:"loadedAt"`
}

// ReloadFailure is the payload of EventSnapshotReloadFailed. Digest is the
// snapshot that stays current.
type ReloadFailure struct {
	ReloadTrigger
	Error  string `json:"error"`
	Digest string `json:"digest"`
}

// EventBus fans reload events out to subscribers without blocking Reload
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[int]chan<- Event
	next        int
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[int]chan<- Event),
	}
}

// Subscribe adds ch to the bus and returns a function removing it again
func (eb *EventBus) Subscribe(ch chan<- Event) (unsubscribe func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	id := eb.next
	eb.next++
	eb.subscribers[id] = ch
	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		delete(eb.subscribers, id)
	}
}

// Publish sends an event to all subscribers. A full subscriber misses the
// event. A nil bus drops it.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			busDropped.WithLabelValues(string(event.Type)).Inc()
			log.Printf("Subscriber full, dropping %s event", event.Type)
		}
	}
}
