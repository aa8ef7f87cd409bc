package cart

import (
	"sync"
	"time"
)

// Topic names an event stream on the bus.
type Topic string

const (
	// TopicCartUpdated fires after every cart mutation so other surfaces
	// (header badge, cart page) refresh.
	TopicCartUpdated Topic = "cart-updated"
	// TopicAuthChanged fires when a visitor logs in or out.
	TopicAuthChanged Topic = "auth-changed"
)

// Event is one notification on the bus.
type Event struct {
	Topic Topic
	Token string // empty for guest-cart events
	At    time.Time
}

// Bus is an in-process publish/subscribe fan-out. Publishing never blocks:
// a subscriber that is not draining its channel misses events rather than
// stalling cart mutations.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]chan Event)}
}

// Subscribe returns a channel of events for topic and a cancel func that
// removes the subscription and closes the channel.
func (b *Bus) Subscribe(topic Topic) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, sub := range subs {
			if sub == ch {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to every current subscriber of its topic.
func (b *Bus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[event.Topic] {
		select {
		case ch <- event:
		default:
		}
	}
}
