package catalog

import (
	"sync"
	"time"
)

// Event kinds published on catalog mutations.
const (
	EventVideoCreated  = "video.created"
	EventVideoUpdated  = "video.updated"
	EventVideoDeleted  = "video.deleted"
	EventVideosExpired = "videos.expired"
	EventGroupCreated  = "group.created"
	EventGroupDeleted  = "group.deleted"
)

// Event tells subscribers the catalog changed. It carries no payload beyond
// the kind: receivers re-fetch their visible list.
type Event struct {
	Kind string    `json:"kind"`
	ID   string    `json:"id,omitempty"`
	At   time.Time `json:"at"`
}

// Broker fans catalog change events out to live subscribers.
// Publish never blocks: a subscriber that already has an event pending
// misses the new one, which is fine because one pending event already means re-fetch.
type Broker struct {
	mu   sync.Mutex
	subs map[uint64]chan Event
	next uint64
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; calling it more than once is safe.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 1)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers e to every subscriber with a free slot.
func (b *Broker) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
