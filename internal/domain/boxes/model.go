package boxes

import (
	"errors"
	"time"
)

// Sentinelas del box. El ocupante "Livre" y el status "Disponível" son
// valores visibles de la ficha, no flags internos.
const (
	OcupanteLivre      = "Livre"
	StatusDisponivel   = "Disponível"
	StatusEmUso        = "Em uso"
	HigienizacaoPadrao = "—"
)

var (
	ErrNotFound = errors.New("box não encontrado")

	// ErrMissingNome falta el identificador al crear u ocupar.
	ErrMissingNome = errors.New("Informe o identificador do box.")

	// ErrOccupied bloquea la eliminación de un box en uso.
	ErrOccupied = errors.New("O box está em uso e não pode ser removido.")
)

type Box struct {
	ID            string
	Nome          string
	Ocupante      string
	Status        string
	Especialidade string
	Higienizacao  string
	Observacao    string

	// EmpresaID es la clínica dueña del box.
	EmpresaID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Livre indica si el box puede recibir un nuevo paciente.
func (b Box) Livre() bool {
	return b.Ocupante == "" || b.Ocupante == OcupanteLivre
}
