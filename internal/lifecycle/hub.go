package lifecycle

import "sync"

// Kind identifies an application lifecycle transition.
type Kind string

const (
	// Background is published when the app stops being the user's focus:
	// terminal focus lost, suspend, quit, or a hangup/terminate signal.
	Background Kind = "background"
	Foreground Kind = "foreground"
)

// Event is a lifecycle notification.
type Event struct {
	Kind   Kind
	Reason string
}

// Hub fans lifecycle events out to subscribers.
type Hub struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
	ids  []int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[int]func(Event){}}
}

// Subscribe registers fn and returns the function that removes it.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.ids = append(h.ids, id)
	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			for i, v := range h.ids {
				if v == id {
					h.ids = append(h.ids[:i], h.ids[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers ev to subscribers in subscription order. Handlers run
// outside the lock, so they may unsubscribe.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.ids))
	for _, id := range h.ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.ids)
}
