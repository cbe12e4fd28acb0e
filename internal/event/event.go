// Package event decouples the transport layer from session handling: the
// HTTP client announces session-ending conditions without depending on the
// components that react to them.
package event

import (
	"log"
	"sync"
)

// Type identifies a kind of event.
type Type int

const (
	// SessionExpired is published when the server rejects the held
	// credential. It is the only involuntary session-termination path.
	SessionExpired Type = iota
)

// Event carries a type and optional payload.
type Event struct {
	Type Type
	Data any
}

// Handler reacts to a published event.
type Handler func(Event)

// Bus is a minimal synchronous publish/subscribe dispatcher. Handlers run
// in publication order on the caller's goroutine, which preserves the
// single-threaded, event-driven execution model of the application.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]Handler)}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[t] = append(b.subs[t], h)
}

// Publish delivers the event to every subscribed handler. A panicking
// handler is logged and does not stop delivery to the remaining handlers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.subs[e.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event: handler panic for type %d: %v", e.Type, r)
				}
			}()
			h(e)
		}()
	}
}
