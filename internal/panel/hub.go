package panel

import "sync"

// Hub fans messages out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full loses its oldest pending message.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	next   int
	buffer int
}

// NewHub creates a hub whose subscribers buffer up to buffer messages
func NewHub[T any](buffer int) *Hub[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub[T]{
		subs:   make(map[int]chan T),
		buffer: buffer,
	}
}

// Subscribe returns a message channel and a function that ends the subscription
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan T, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Publish delivers msg to every subscriber
func (h *Hub[T]) Publish(msg T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- msg:
			continue
		default:
		}
		// full: drop the oldest and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers returns the current subscriber count
func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// HostBridge sends editor terminal requests through a host hub
type HostBridge struct {
	hub *Hub[HostRequest]
}

// NewHostBridge wraps hub
func NewHostBridge(hub *Hub[HostRequest]) *HostBridge {
	return &HostBridge{hub: hub}
}

// OpenTerminal implements shell.TerminalHost
func (b *HostBridge) OpenTerminal(dir, name string) error {
	if b.hub.Subscribers() == 0 {
		return ErrNoHost
	}
	b.hub.Publish(OpenTerminalRequest{Cwd: dir, Name: name})
	return nil
}
