package admissions

import (
	"testing"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('a'+n-1))
	}
}

func TestMatchesPrescription(t *testing.T) {
	p := Prescription{ID: "p-1", Descricao: "Dipirona"}

	if !matchesPrescription(ExecutionEntry{PrescricaoID: "p-1"}, p) {
		t.Fatal("expected match by prescription id")
	}
	if matchesPrescription(ExecutionEntry{PrescricaoID: "p-2", Descricao: "Dipirona"}, p) {
		t.Fatal("id mismatch must not fall back to description")
	}

	// fichas antiguas no guardaban el vínculo: cae a la descripción
	// normalizada (sin acentos, sin caja)
	legacy := ExecutionEntry{Descricao: "  DIPIRONA "}
	if !matchesPrescription(legacy, p) {
		t.Fatal("expected description fallback")
	}
	accented := ExecutionEntry{Descricao: "soluçao fisiológica"}
	if !matchesPrescription(accented, Prescription{Descricao: "Solucao Fisiologica"}) {
		t.Fatal("expected accent-insensitive fallback")
	}
	if matchesPrescription(ExecutionEntry{Descricao: ""}, Prescription{Descricao: ""}) {
		t.Fatal("empty descriptions must never link")
	}
}

func TestCompleteEntry_InPlaceWithBackfill(t *testing.T) {
	rec := AdmissionRecord{Execucoes: []ExecutionEntry{
		{ID: "e-1", Descricao: "Curativo", Status: StatusAgendado},
	}}

	done := rec.completeEntry(0, CompletionInput{
		Responsavel:   "Enf. Carla",
		RealizadoData: "2026-03-10",
		RealizadoHora: "10:30",
	}, "2026-03-10T10:30", seqID())

	if len(rec.Execucoes) != 1 {
		t.Fatalf("scheduled entry must complete in place, got %d entries", len(rec.Execucoes))
	}
	if done.Status != StatusConcluida {
		t.Fatalf("expected status %q, got %q", StatusConcluida, done.Status)
	}
	if done.RealizadoPor != "Enf. Carla" || done.RealizadoEm != "2026-03-10T10:30" {
		t.Fatalf("completion fields not written: %+v", done)
	}
	// sin programación previa, hereda el momento de realización
	if done.ProgramadoData != "2026-03-10" || done.ProgramadoHora != "10:30" {
		t.Fatalf("expected programado backfill, got %+v", done)
	}
}

func TestCompleteEntry_OnDemandClonesTemplate(t *testing.T) {
	rec := AdmissionRecord{Execucoes: []ExecutionEntry{
		{ID: "tpl-1", PrescricaoID: "p-1", Descricao: "Analgesia de resgate", Status: StatusSobDemanda, SobDemanda: true},
	}}

	done := rec.completeEntry(0, CompletionInput{
		Responsavel:   "Dr. Huli",
		RealizadoData: "2026-03-11",
		RealizadoHora: "03:15",
		Observacoes:   "Dor intensa no pós-operatório.",
	}, "2026-03-11T03:15", seqID())

	if len(rec.Execucoes) != 2 {
		t.Fatalf("expected clone + template, got %d entries", len(rec.Execucoes))
	}
	if done != &rec.Execucoes[0] {
		t.Fatal("completed clone must be at the head")
	}
	if done.SobDemanda || done.Status != StatusConcluida {
		t.Fatalf("clone must be a concluded occurrence, got %+v", done)
	}
	if done.ID == "tpl-1" {
		t.Fatal("clone must get a fresh id")
	}
	if done.PrescricaoID != "p-1" {
		t.Fatal("clone must keep the prescription link")
	}
	if done.ProgramadoEm != "2026-03-11T03:15" || done.RealizadoEm != "2026-03-11T03:15" {
		t.Fatalf("on-demand clone schedules at completion time, got %+v", done)
	}

	tpl := rec.Execucoes[1]
	if !tpl.SobDemanda || tpl.Status != StatusSobDemanda || tpl.RealizadoEm != "" {
		t.Fatalf("template must stay untouched, got %+v", tpl)
	}
}

func TestCompleteEntry_StatusNormalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", StatusConcluida},
		{"Realizada", StatusConcluida},
		{"EXECUTADO", StatusConcluida},
		{"aplicada", StatusConcluida},
		{"reagendada", StatusAgendada},
	}
	for _, tc := range cases {
		rec := AdmissionRecord{Execucoes: []ExecutionEntry{{ID: "e-1", Status: StatusAgendado}}}
		done := rec.completeEntry(0, CompletionInput{
			RealizadoData: "2026-03-10",
			RealizadoHora: "08:00",
			Status:        tc.in,
		}, "2026-03-10T08:00", seqID())
		if done.Status != tc.want {
			t.Fatalf("status %q: expected %q, got %q", tc.in, tc.want, done.Status)
		}
	}
}

func TestPurgePending(t *testing.T) {
	schedule := []ExecutionEntry{
		{ID: "e-1", PrescricaoID: "p-1", Status: StatusConcluida},
		{ID: "e-2", PrescricaoID: "p-1", Status: StatusAgendado},
		{ID: "e-3", PrescricaoID: "p-1", Status: StatusSobDemanda, SobDemanda: true},
		{ID: "e-4", PrescricaoID: "p-2", Status: StatusAgendado},
	}
	clone := func() *AdmissionRecord {
		rec := &AdmissionRecord{}
		rec.Execucoes = append(rec.Execucoes, schedule...)
		return rec
	}
	all := func(ExecutionEntry) bool { return true }
	onlyP1 := func(e ExecutionEntry) bool { return e.PrescricaoID == "p-1" }

	// purga total: las concluidas son historia clínica, nunca se tocan
	rec := clone()
	if removed := rec.purgePending(false, all); removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if len(rec.Execucoes) != 1 || rec.Execucoes[0].ID != "e-1" {
		t.Fatalf("expected only the completed entry, got %+v", rec.Execucoes)
	}

	// keepTemplates preserva las plantillas sob demanda
	rec = clone()
	if removed := rec.purgePending(true, all); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(rec.Execucoes) != 2 || rec.Execucoes[1].ID != "e-3" {
		t.Fatalf("expected completed + template, got %+v", rec.Execucoes)
	}

	// el match limita el alcance a una prescripción
	rec = clone()
	if removed := rec.purgePending(false, onlyP1); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(rec.Execucoes) != 2 || rec.Execucoes[1].ID != "e-4" {
		t.Fatalf("expected e-1 and e-4 kept, got %+v", rec.Execucoes)
	}
}

func TestRemoveLinked_IgnoresStatus(t *testing.T) {
	rec := &AdmissionRecord{Execucoes: []ExecutionEntry{
		{ID: "e-1", PrescricaoID: "p-1", Status: StatusConcluida},
		{ID: "e-2", PrescricaoID: "p-1", Status: StatusAgendado},
		{ID: "e-3", PrescricaoID: "p-2", Status: StatusAgendado},
	}}

	removed := rec.removeLinked(Prescription{ID: "p-1"})
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(rec.Execucoes) != 1 || rec.Execucoes[0].ID != "e-3" {
		t.Fatalf("expected only e-3, got %+v", rec.Execucoes)
	}
}
