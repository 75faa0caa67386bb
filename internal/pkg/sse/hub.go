package sse

import (
	"sync"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	ID    string
	Event string
	Data  interface{}
}

// Hub manages SSE subscribers and event broadcasting
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  10,
	}
}

// Subscribe registers a new subscriber for a client and returns the event channel and cleanup function
func (h *Hub) Subscribe(clientID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)

	if h.subscribers[clientID] == nil {
		h.subscribers[clientID] = make(map[chan Event]struct{})
	}
	h.subscribers[clientID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[clientID], ch)
			close(ch)
			if len(h.subscribers[clientID]) == 0 {
				delete(h.subscribers, clientID)
			}
		})
	}

	return ch, cleanup
}

// Broadcast sends an event to every subscriber
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, subs := range h.subscribers {
		for ch := range subs {
			send(ch, event)
		}
	}
}

// send never blocks; a full subscriber misses the event.
func send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
	}
}

// TotalSubscribers returns the total number of active subscribers across all clients
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
