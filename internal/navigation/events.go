package navigation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"travel-nav-service/internal/domain"
)

// EventType names the discrete events the engine emits to its consumers
// (map renderer, notification sink).
type EventType string

const (
	EventLocationChanged EventType = "locationChanged"
	EventRouteUpdated    EventType = "routeUpdated"
	EventStateChanged    EventType = "navigationStateChanged"
	EventNotice          EventType = "notice"
)

// Event is one engine notification. Location and Route are snapshots taken
// at emit time; consumers must not retain pointers into session state.
type Event struct {
	Type      EventType        `json:"type"`
	SessionID uuid.UUID        `json:"session_id"`
	State     string           `json:"state,omitempty"`
	Location  *domain.Location `json:"location,omitempty"`
	Route     *domain.Route    `json:"route,omitempty"`
	Message   string           `json:"message,omitempty"`
	At        time.Time        `json:"at"`
}

// Broadcaster fans engine events out to subscribers. Publishing never
// blocks; a subscriber that falls behind loses events rather than stalling
// the engine.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new event channel.
func (b *Broadcaster) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a previously subscribed channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes every subscriber channel. Further publishes are dropped.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
