package account

import (
	"sync"
)

// Hub broadcasts the current favorite account id to subscribers. Every
// favorite write in the process goes through the account service, which
// publishes here, so subscribers observe all mutations regardless of which
// screen made them.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]chan *string
	nextID  int
	current *string
	seeded  bool
	closed  bool
}

// NewHub creates a favorite signal hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]chan *string),
	}
}

// Subscribe registers a subscriber. The returned channel carries the
// favorite id (nil when no favorite is set); if a value has already been
// published, it is delivered immediately. The cancel function removes the
// subscription and closes the channel.
func (h *Hub) Subscribe() (<-chan *string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	// Capacity 1 with coalescing: a slow subscriber only ever sees the
	// latest value, and publishers never block.
	ch := make(chan *string, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	if h.seeded {
		ch <- h.current
	}
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish broadcasts a new favorite id to all subscribers, replacing any
// undelivered previous value.
func (h *Hub) Publish(favoriteID *string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.current = favoriteID
	h.seeded = true

	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- favoriteID
	}
}

// Close shuts down the hub and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
