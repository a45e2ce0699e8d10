// Package memory es un notifier en memoria para desarrollo y tests:
// retiene los eventos y permite suscribirse por canal.
package memory

import (
	"context"
	"sync"

	"pet-inpatient-care/internal/ports/notify"
)

type Hub struct {
	mu     sync.RWMutex
	events []notify.Event
	subs   []chan notify.Event
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) RecordUpdated(ctx context.Context, ev notify.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, ev)
	for _, sub := range h.subs {
		// entrega no bloqueante: un suscriptor lento pierde eventos
		select {
		case sub <- ev:
		default:
		}
	}
	return nil
}

// Subscribe devuelve un canal con buffer que recibe eventos futuros.
func (h *Hub) Subscribe() <-chan notify.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan notify.Event, 16)
	h.subs = append(h.subs, ch)
	return ch
}

// Events devuelve una copia de todo lo publicado hasta ahora.
func (h *Hub) Events() []notify.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]notify.Event, len(h.events))
	copy(out, h.events)
	return out
}
