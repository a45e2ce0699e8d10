// Package schedule convierte una prescripción validada en la serie
// ordenada de ejecuciones que el mapa de internación consume.
package schedule

import (
	"math"
	"strconv"
	"strings"
)

// MaxOccurrences limita cuántas ejecuciones puede generar una sola
// prescripción. Es una válvula de seguridad contra intervalos mal
// cargados ("cada 1 hora por 30 días"); ajustable por Generator.
const MaxOccurrences = 48

// Estados con los que nace una ejecución. "Sob demanda" marca el modo
// de agendamiento a pedido; el resto nace "Agendado".
const (
	StatusAgendado   = "Agendado"
	StatusSobDemanda = "Sob demanda"
)

// Frecuencias reconocidas (claves del formulario de prescripción).
const (
	FrequenciaRecorrente = "recorrente"
	FrequenciaUnica      = "unica"
	FrequenciaNecessario = "necessario"
)

// Unidad del límite de repetición "Por".
const (
	UnidadeHoras = "horas"
	UnidadeDias  = "dias"
	UnidadeVezes = "vezes"
)

// Input es la parte de la prescripción que importa para agendar.
type Input struct {
	Frequencia string

	DataInicio string // YYYY-MM-DD
	HoraInicio string // hh:mm

	// "A cada N horas/dias" (solo recorrente)
	ACadaValor   string
	ACadaUnidade string

	// Límite: "Por N vezes" o "Por N horas/dias" (solo recorrente)
	PorValor   string
	PorUnidade string
}

// Entry es el borrador de una ejecución, todavía sin id ni vínculo a
// la prescripción; eso lo completa quien persiste.
type Entry struct {
	ProgramadoData string
	ProgramadoHora string
	ProgramadoEm   string
	Status         string
	SobDemanda     bool
}

// Generator produce la serie de ejecuciones de una prescripción.
// El cero value usa MaxOccurrences.
type Generator struct {
	MaxOccurrences int
}

// Entries implementa el algoritmo de agendamiento:
//   - sin hora inicial no hay nada que agendar (lista vacía);
//   - frecuencia única o a demanda emite exactamente una entrada;
//   - recorrente emite entradas espaciadas por el intervalo, acotadas
//     por "N vezes" o por la duración total, con tope MaxOccurrences;
//   - intervalo inválido degrada a una entrada única, no es error.
func (g Generator) Entries(in Input) []Entry {
	limit := g.MaxOccurrences
	if limit <= 0 {
		limit = MaxOccurrences
	}

	start, err := TimeToMinutes(in.HoraInicio)
	if err != nil {
		return nil
	}

	freq := strings.ToLower(strings.TrimSpace(in.Frequencia))
	sobDemanda := strings.Contains(freq, "necess")
	status := StatusAgendado
	if sobDemanda {
		status = StatusSobDemanda
	}

	emit := func(offset int) Entry {
		total := start + offset
		date := in.DataInicio
		if date != "" {
			date = ShiftDate(date, total/minutesPerDay)
		}
		clock := MinutesToTime(total)
		return Entry{
			ProgramadoData: date,
			ProgramadoHora: clock,
			ProgramadoEm:   CombineDateAndTime(date, clock),
			Status:         status,
			SobDemanda:     sobDemanda,
		}
	}

	if freq != FrequenciaRecorrente {
		return []Entry{emit(0)}
	}

	interval := IntervalToMinutes(in.ACadaValor, in.ACadaUnidade)
	if interval <= 0 {
		return []Entry{emit(0)}
	}

	switch normalizeUnit(in.PorUnidade) {
	case UnidadeVezes, "vez":
		count := 1
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(in.PorValor), 64); err == nil {
			count = int(math.Round(parsed))
		}
		if count < 1 {
			count = 1
		}
		if count > limit {
			count = limit
		}
		entries := make([]Entry, 0, count)
		for i := 0; i < count; i++ {
			entries = append(entries, emit(i*interval))
		}
		return entries

	case UnidadeHoras, "hora", UnidadeDias, "dia":
		bound := IntervalToMinutes(in.PorValor, in.PorUnidade)
		if bound <= 0 {
			bound = interval
		}
		entries := make([]Entry, 0)
		for offset := 0; offset <= bound && len(entries) < limit; offset += interval {
			entries = append(entries, emit(offset))
		}
		return entries
	}

	return []Entry{emit(0)}
}
