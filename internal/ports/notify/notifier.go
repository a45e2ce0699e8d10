package notify

import (
	"context"
	"time"
)

// Event describe un cambio relevante sobre un registro de internación.
type Event struct {
	RecordID string    `json:"recordId"`
	Tipo     string    `json:"tipo"`
	Resumo   string    `json:"resumo"`
	At       time.Time `json:"at"`
}

// Notifier publica eventos hacia interesados externos (paneles,
// brokers). Las implementaciones no deben bloquear el camino crítico;
// los errores se loguean y se descartan.
type Notifier interface {
	RecordUpdated(ctx context.Context, ev Event) error
}

type Noop struct{}

func (Noop) RecordUpdated(context.Context, Event) error { return nil }
