// Package eventbus provides the in-process publish/subscribe channel used
// to observe a simulation run. Publishing never blocks: a subscriber that
// falls behind loses events instead of stalling the tick loop.
package eventbus

import "sync"

// Event is any value published on the bus. Concrete payloads live in
// core/events; subscribers type-switch on them.
type Event any

// Bus fans published events out to all current subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscription is a live subscriber handle. Receive from C; call Cancel
// when done. C is closed on Cancel and on bus Close.
type Subscription struct {
	C <-chan Event

	id  int
	bus *Bus
}

// Cancel detaches the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Cancel() {
	s.bus.cancel(s.id)
}

// Subscribe attaches a subscriber with the given channel buffer. Buffers
// below one are raised to one so a single publish is never dropped on an
// idle subscriber.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	if b.closed {
		close(ch)
	} else {
		b.subs[id] = ch
	}
	return &Subscription{C: ch, id: id, bus: b}
}

// Publish delivers e to every subscriber that has buffer room. Slow
// subscribers are skipped, never waited on.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

func (b *Bus) cancel(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
}
