package events

import (
	"sync"
	"time"
)

type Type string

const (
	RecordCreated Type = "created"
	RecordUpdated Type = "updated"
	RecordDeleted Type = "deleted"
)

// Event announces a change to one of a user's records. Subscribers are
// expected to refetch rather than patch local state.
type Event struct {
	Type     Type      `json:"type"`
	UserID   string    `json:"userId"`
	RecordID int64     `json:"recordId"`
	At       time.Time `json:"at"`
}

// Subscription receives the events of a single user until it is closed.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	userID string
	broker *Broker
	once   sync.Once
}

// Close unsubscribes and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.broker.unsubscribe(s)
}

// Broker fans record events out to per-user subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
}

func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (b *Broker) Subscribe(userID string) *Subscription {
	ch := make(chan Event, b.buffer)
	sub := &Subscription{C: ch, ch: ch, userID: userID, broker: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*Subscription]struct{})
	}
	b.subs[userID][sub] = struct{}{}
	return sub
}

func (b *Broker) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.userID)
		}
	}
	sub.once.Do(func() { close(sub.ch) })
}

// Publish delivers ev to every subscriber of ev.UserID and reports how many
// received it.
func (b *Broker) Publish(ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}
	delivered := 0
	for sub := range b.subs[ev.UserID] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers reports how many subscriptions userID currently holds.
func (b *Broker) Subscribers(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

// Close ends every subscription. Later publishes are dropped.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for userID, set := range b.subs {
		for sub := range set {
			sub.once.Do(func() { close(sub.ch) })
		}
		delete(b.subs, userID)
	}
}
