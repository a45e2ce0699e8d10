package admissions

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"pet-inpatient-care/internal/domain/schedule"
)

// State es el estado del registro de internación. Admitted es el único
// estado mutable; los otros tres son terminales y mutuamente excluyentes.
type State string

const (
	StateAdmitted   State = "internada"
	StateDischarged State = "alta"
	StateDeceased   State = "obito"
	StateCancelled  State = "cancelada"
)

// Terminal indica si el estado bloquea nuevas mutaciones clínicas.
func (s State) Terminal() bool {
	return s == StateDischarged || s == StateDeceased || s == StateCancelled
}

// Label devuelve el nombre legible que usan los mensajes de error.
func (s State) Label() string {
	switch s {
	case StateDischarged:
		return "alta confirmada"
	case StateDeceased:
		return "óbito registrado"
	case StateCancelled:
		return "internação cancelada"
	default:
		return "internada"
	}
}

// Categorías de prescripción. El campo es un string abierto: valores
// fuera de esta lista se tratan como procedimiento genérico.
const (
	TipoProcedimento  = "procedimento"
	TipoMedicamento   = "medicamento"
	TipoFluidoterapia = "fluidoterapia"
)

// Frecuencias y unidades, compartidas con el generador de agenda.
const (
	FrequenciaRecorrente = schedule.FrequenciaRecorrente
	FrequenciaUnica      = schedule.FrequenciaUnica
	FrequenciaNecessario = schedule.FrequenciaNecessario

	UnidadeHoras = schedule.UnidadeHoras
	UnidadeDias  = schedule.UnidadeDias
	UnidadeVezes = schedule.UnidadeVezes
)

// Estados visibles de una ejecución. Son texto libre en la ficha; estas
// constantes cubren los valores canónicos que el sistema escribe.
const (
	StatusAgendado   = schedule.StatusAgendado
	StatusAgendada   = "Agendada"
	StatusConcluida  = "Concluída"
	StatusSobDemanda = schedule.StatusSobDemanda
)

// statusKeyFinished cubre las variantes históricas con las que una
// ejecución quedó marcada como hecha.
var statusKeyFinished = map[string]bool{
	"executado": true, "executada": true,
	"realizado": true, "realizada": true,
	"concluido": true, "concluida": true,
	"finalizado": true, "finalizada": true,
	"aplicado": true, "aplicada": true,
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeKey colapsa un texto a una clave comparable: minúsculas y
// sin acentos. Se usa para status, frecuencias y el fallback de
// vínculo por descripción.
func normalizeKey(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if lowered == "" {
		return ""
	}
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

// statusKey canoniza un status libre a "concluida", "agendada",
// "sob-demanda" o la clave normalizada original.
func statusKey(status string) string {
	key := normalizeKey(status)
	if key == "" {
		return ""
	}
	if statusKeyFinished[key] {
		return "concluida"
	}
	if strings.Contains(key, "agend") {
		return "agendada"
	}
	if strings.Contains(key, "demanda") {
		return "sob-demanda"
	}
	return key
}

func isCompletedStatus(status string) bool {
	return statusKey(status) == "concluida"
}
