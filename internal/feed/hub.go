// Package feed fans freshly posted notices out to subscribed clients of
// the same school. Delivery is at-most-once and best-effort: the stored
// notice is already durable in the database, the feed only exists for UI
// freshness, so a slow or gone subscriber simply misses events instead of
// blocking the rest.
package feed

import (
	"sync"

	"github.com/schoolconnect/schoolconnect/internal/queue"
)

// Hub routes events to subscribers keyed by school code. Subscriptions are
// made after authorization (the SSE handler resolves the caller's read
// scope first), so the hub itself does no access checks.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan queue.NoticePostedEvent]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan queue.NoticePostedEvent]struct{})}
}

// Subscribe registers a buffered channel for one school's events and
// returns it with a cancel function. Cancel is idempotent and must be
// called when the client disconnects.
func (h *Hub) Subscribe(schoolCode string) (<-chan queue.NoticePostedEvent, func()) {
	ch := make(chan queue.NoticePostedEvent, 16)

	h.mu.Lock()
	set, ok := h.subs[schoolCode]
	if !ok {
		set = make(map[chan queue.NoticePostedEvent]struct{})
		h.subs[schoolCode] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[schoolCode]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, schoolCode)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every current subscriber of its school. Sends are
// non-blocking: a subscriber whose buffer is full drops the event.
func (h *Hub) Publish(ev queue.NoticePostedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.SchoolCode] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports the number of open subscriptions for a school.
func (h *Hub) Subscribers(schoolCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[schoolCode])
}
