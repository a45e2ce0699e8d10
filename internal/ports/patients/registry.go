package patients

import "context"

// Registry es el cadastro central de pacientes. La internación solo lo
// necesita para propagar el óbito; la sincronización es best-effort.
type Registry interface {
	MarkDeceased(ctx context.Context, petID string) error
}

// Noop descarta las sincronizaciones. Útil cuando el cadastro externo
// no está configurado.
type Noop struct{}

func (Noop) MarkDeceased(context.Context, string) error { return nil }
