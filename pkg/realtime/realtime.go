// Package realtime provides a lightweight in-process publish/subscribe hub
// used to fan out recipe events to multiple listeners (e.g. WebSocket
// sessions watching the catalog for new recipes).
//
// Delivery is best effort: a listener with a full channel buffer drops the
// event rather than blocking publishers.
package realtime

import (
	"sync"
	"time"
)

// RecipeEvent announces a catalog change over the firehose.
type RecipeEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is the hub's envelope. Type is "recipe_created" or
// "recipe_deleted"; additional kinds can be added without changing channel
// element types.
type Event struct {
	Type   string      `json:"type"`
	Recipe RecipeEvent `json:"recipe"`
}

const (
	EventRecipeCreated = "recipe_created"
	EventRecipeDeleted = "recipe_deleted"
)

// Hub is an in-memory fan-out dispatcher. Each registered listener
// receives events via its own buffered channel. The hub is
// concurrency-safe.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a new hub with per-listener buffer size.
// If bufSize <= 0, a default of 32 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a new listener and returns (listenerID, receiveOnlyChannel).
// Callers must later Unregister(id) to release resources.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener with the given id and closes its channel.
// It is safe to call multiple times; unknown ids are ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers an event to all registered listeners (best effort).
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- event:
		default:
			// Drop for slow listener.
		}
	}
}

// Size returns the current number of active listeners (approximate).
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
