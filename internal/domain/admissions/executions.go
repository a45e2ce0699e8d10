package admissions

import (
	"strings"
	"time"
)

// matchesPrescription vincula una ejecución con su prescripción. El
// vínculo primario es el ID; las fichas antiguas no lo guardaban, así
// que cae al match por descripción normalizada.
func matchesPrescription(entry ExecutionEntry, p Prescription) bool {
	if entry.PrescricaoID != "" && p.ID != "" {
		return entry.PrescricaoID == p.ID
	}
	key := normalizeKey(p.Descricao)
	if key == "" {
		return false
	}
	return normalizeKey(entry.Descricao) == key
}

// CompletionInput es el payload para concluir una ejecución.
type CompletionInput struct {
	Responsavel   string `json:"responsavel"`
	RealizadoData string `json:"realizadoData"`
	RealizadoHora string `json:"realizadoHora"`
	Status        string `json:"status"`
	Observacoes   string `json:"observacoes"`
}

// completeEntry escribe la conclusión sobre la agenda del registro. Una
// entrada agendada se concluye en el lugar; una entrada sob demanda es
// una plantilla: se clona al inicio de la lista como ocurrencia hecha y
// la plantilla queda intacta para la próxima aplicación.
func (r *AdmissionRecord) completeEntry(idx int, in CompletionInput, realizadoEm string, newID func() string) *ExecutionEntry {
	entry := &r.Execucoes[idx]

	status := strings.TrimSpace(in.Status)
	if status == "" || isCompletedStatus(status) {
		status = StatusConcluida
	} else if statusKey(status) == "agendada" {
		status = StatusAgendada
	}

	if entry.SobDemanda {
		done := *entry
		done.ID = newID()
		done.PrescricaoID = entry.PrescricaoID
		done.SobDemanda = false
		done.Status = status
		done.Responsavel = in.Responsavel
		done.RealizadoData = in.RealizadoData
		done.RealizadoHora = in.RealizadoHora
		done.RealizadoEm = realizadoEm
		done.RealizadoPor = in.Responsavel
		done.ProgramadoData = in.RealizadoData
		done.ProgramadoHora = in.RealizadoHora
		done.ProgramadoEm = realizadoEm
		if in.Observacoes != "" {
			done.Observacoes = in.Observacoes
		}
		r.Execucoes = append([]ExecutionEntry{done}, r.Execucoes...)
		return &r.Execucoes[0]
	}

	entry.Status = status
	entry.Responsavel = in.Responsavel
	entry.RealizadoData = in.RealizadoData
	entry.RealizadoHora = in.RealizadoHora
	entry.RealizadoEm = realizadoEm
	entry.RealizadoPor = in.Responsavel
	if in.Observacoes != "" {
		entry.Observacoes = in.Observacoes
	}
	// Fichas sin programación (ocurrencias avulsas) heredan el momento
	// de realización como programado, para que la agenda ordene bien.
	if entry.ProgramadoData == "" {
		entry.ProgramadoData = in.RealizadoData
		entry.ProgramadoHora = in.RealizadoHora
		entry.ProgramadoEm = realizadoEm
	}
	return entry
}

// purgePending remueve las ejecuciones que cumplen match y todavía no
// fueron concluidas. Las concluidas nunca se tocan: son historia
// clínica. keepTemplates preserva las plantillas sob demanda.
func (r *AdmissionRecord) purgePending(keepTemplates bool, match func(ExecutionEntry) bool) int {
	kept := r.Execucoes[:0]
	removed := 0
	for _, entry := range r.Execucoes {
		switch {
		case !match(entry):
			kept = append(kept, entry)
		case isCompletedStatus(entry.Status):
			kept = append(kept, entry)
		case entry.SobDemanda && keepTemplates:
			kept = append(kept, entry)
		default:
			removed++
		}
	}
	r.Execucoes = kept
	return removed
}

// removeLinked remueve toda ejecución vinculada a la prescripción, sin
// importar el status.
func (r *AdmissionRecord) removeLinked(p Prescription) int {
	kept := r.Execucoes[:0]
	removed := 0
	for _, entry := range r.Execucoes {
		if matchesPrescription(entry, p) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	r.Execucoes = kept
	return removed
}

func (r *AdmissionRecord) countPending() int {
	total := 0
	for _, entry := range r.Execucoes {
		if !isCompletedStatus(entry.Status) {
			total++
		}
	}
	return total
}

// appendAudit inserta un evento al inicio del historial (más nuevo
// primero).
func (r *AdmissionRecord) appendAudit(tipo, descricao, criadoPor string, at time.Time, newID func() string) {
	event := AuditEvent{
		ID:        newID(),
		Tipo:      tipo,
		Descricao: descricao,
		CriadoPor: criadoPor,
		CriadoEm:  at,
	}
	r.Historico = append([]AuditEvent{event}, r.Historico...)
}
