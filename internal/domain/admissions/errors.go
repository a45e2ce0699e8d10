package admissions

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound cubre registro, prescripción o ejecución inexistente.
	ErrNotFound = errors.New("registro não encontrado")

	// ErrConflict indica que otra escritura ganó la carrera sobre el
	// mismo registro (check de versión del repositorio). Sin retry:
	// el llamador reintenta si quiere.
	ErrConflict = errors.New("registro atualizado por outra operação")
)

// ErrSameBox rechaza el no-op de mover al box actual. Es un error de
// estado (la internación ya ocupa ese box), no de entrada.
var ErrSameBox error = &InvalidStateError{Msg: "Selecione um destino diferente para continuar."}

// ValidationError es un error de entrada corregible por el usuario.
// Msg viene en el idioma de la ficha y nombra el primer campo faltante.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// ErrMissingCompletionTime falta fecha u hora de realización.
var ErrMissingCompletionTime = invalid("realizado", "Informe a data e o horário de realização.")

// InvalidStateError indica que un estado terminal bloquea la operación.
type InvalidStateError struct {
	State State
	Msg   string
}

func (e *InvalidStateError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("operação não permitida: internação com %s", e.State.Label())
}

func blockedBy(state State) *InvalidStateError {
	return &InvalidStateError{State: state}
}
