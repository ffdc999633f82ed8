// Package events publishes ledger and order lifecycle events to in-process
// subscribers, websocket clients and, optionally, a NATS broker.
package events

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/henrysammarfo/tapngo/internal/metrics"
)

// Type names an event. It doubles as the NATS subject suffix.
type Type string

const (
	TokenMinted        Type = "token.minted"
	TokenBurned        Type = "token.burned"
	TokenTransferred   Type = "token.transferred"
	TokenFaucetClaimed Type = "token.faucet_claimed"
	TokenPaused        Type = "token.paused"
	TokenUnpaused      Type = "token.unpaused"

	OrderCreated   Type = "order.created"
	OrderCompleted Type = "order.completed"
	OrderCancelled Type = "order.cancelled"
	OrderExpired   Type = "order.expired"

	VendorRegistered Type = "vendor.registered"
	VendorUpdated    Type = "vendor.updated"
)

// Event is one state change.
type Event struct {
	ID        string           `json:"id"`
	Type      Type             `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Addresses []common.Address `json:"addresses"`
	Data      map[string]any   `json:"data,omitempty"`
}

// New builds an event touching addrs.
func New(t Type, data map[string]any, addrs ...common.Address) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Addresses: addrs,
		Data:      data,
	}
}

// Touches reports whether addr is one of the event's parties.
func (e Event) Touches(addr common.Address) bool {
	for _, a := range e.Addresses {
		if a == addr {
			return true
		}
	}
	return false
}

// Publisher accepts events. Publish must not block.
type Publisher interface {
	Publish(e Event)
}

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// Bus fans events out to subscribers. A subscriber whose buffer is full
// misses the event; publishers never wait.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Subscription receives events on C until Close.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	filter func(Event) bool
	bus    *Bus
	id     uint64
	once   sync.Once
}

// Subscribe registers a subscriber with the given buffer. A nil filter
// receives every event.
func (b *Bus) Subscribe(buffer int, filter func(Event) bool) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	sub := &Subscription{C: ch, ch: ch, filter: filter, bus: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.nextID++
	sub.id = b.nextID
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers e to every matching subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			metrics.EventsDropped.Inc()
		}
	}
}

// Close unsubscribes and closes every subscriber.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Close unsubscribes. C is closed once pending events are no longer deliverable.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		if _, ok := s.bus.subs[s.id]; ok {
			delete(s.bus.subs, s.id)
			close(s.ch)
		}
	})
}
