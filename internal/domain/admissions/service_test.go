package admissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"pet-inpatient-care/internal/ports/notify"
)

type fakeRepo struct {
	mu     sync.Mutex
	recs   map[string]AdmissionRecord
	codigo int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{recs: make(map[string]AdmissionRecord)}
}

func cloneForTest(rec AdmissionRecord) AdmissionRecord {
	out := rec
	out.Alergias = append([]string(nil), rec.Alergias...)
	out.Prescricoes = append([]Prescription(nil), rec.Prescricoes...)
	out.Execucoes = append([]ExecutionEntry(nil), rec.Execucoes...)
	out.Historico = append([]AuditEvent(nil), rec.Historico...)
	return out
}

func (r *fakeRepo) Create(_ context.Context, rec AdmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[rec.ID] = cloneForTest(rec)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, rec AdmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.recs[rec.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != rec.Version {
		return ErrConflict
	}
	next := cloneForTest(rec)
	next.Version++
	r.recs[rec.ID] = next
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (AdmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return AdmissionRecord{}, ErrNotFound
	}
	return cloneForTest(rec), nil
}

func (r *fakeRepo) List(_ context.Context) ([]AdmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AdmissionRecord, 0, len(r.recs))
	for _, rec := range r.recs {
		out = append(out, cloneForTest(rec))
	}
	return out, nil
}

func (r *fakeRepo) NextCodigo(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codigo++
	return r.codigo, nil
}

type fakeBoxes struct {
	assigned []string // "box/ocupante"
	released []string
	failWith error
}

func (b *fakeBoxes) Assign(_ context.Context, name, occupant string) error {
	if b.failWith != nil {
		return b.failWith
	}
	b.assigned = append(b.assigned, name+"/"+occupant)
	return nil
}

func (b *fakeBoxes) Release(_ context.Context, name string) error {
	if b.failWith != nil {
		return b.failWith
	}
	b.released = append(b.released, name)
	return nil
}

type fakeRegistry struct {
	deceased []string
	failWith error
}

func (f *fakeRegistry) MarkDeceased(_ context.Context, petID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deceased = append(f.deceased, petID)
	return nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) RecordUpdated(_ context.Context, ev notify.Event) error {
	f.events = append(f.events, ev)
	return nil
}

type testEnv struct {
	svc      *Service
	repo     *fakeRepo
	boxes    *fakeBoxes
	registry *fakeRegistry
	notifier *fakeNotifier
	now      time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     newFakeRepo(),
		boxes:    &fakeBoxes{},
		registry: &fakeRegistry{},
		notifier: &fakeNotifier{},
		now:      time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(Deps{
		Repo:     env.repo,
		Boxes:    env.boxes,
		Patients: env.registry,
		Notifier: env.notifier,
	})
	env.svc.now = func() time.Time { return env.now }

	n := 0
	env.svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return env
}

func (e *testEnv) admit(t *testing.T) AdmissionRecord {
	t.Helper()
	rec, err := e.svc.Admit(context.Background(), "staff-1", AdmitInput{
		Pet: PetInfo{ID: "pet-1", Nome: "Thor"},
		Box: "Box 01",
	})
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	return rec
}

func (e *testEnv) prescribe(t *testing.T, recordID string, in PrescriptionInput) AdmissionRecord {
	t.Helper()
	rec, err := e.svc.AddPrescription(context.Background(), recordID, "staff-1", in)
	if err != nil {
		t.Fatalf("add prescription: %v", err)
	}
	return rec
}

func TestAdmit(t *testing.T) {
	env := newTestEnv()

	rec := env.admit(t)
	if rec.Codigo != 1 || rec.State != StateAdmitted || rec.Version != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Historico) != 1 || rec.Historico[0].Tipo != "admissao" {
		t.Fatalf("expected admission audit event, got %+v", rec.Historico)
	}
	if len(env.boxes.assigned) != 1 || env.boxes.assigned[0] != "Box 01/Thor" {
		t.Fatalf("expected box occupied by pet, got %v", env.boxes.assigned)
	}
	if len(env.notifier.events) != 1 || env.notifier.events[0].Tipo != "admissao" {
		t.Fatalf("expected admission event, got %+v", env.notifier.events)
	}

	// el código es secuencial entre registros
	rec2, err := env.svc.Admit(context.Background(), "staff-1", AdmitInput{Pet: PetInfo{Nome: "Mia"}})
	if err != nil {
		t.Fatalf("second admit: %v", err)
	}
	if rec2.Codigo != 2 {
		t.Fatalf("expected codigo 2, got %d", rec2.Codigo)
	}
}

func TestAdmit_RequiresPet(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Admit(context.Background(), "staff-1", AdmitInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Msg != "Selecione um paciente válido antes de salvar." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdmit_DedupesAllergies(t *testing.T) {
	env := newTestEnv()

	rec, err := env.svc.Admit(context.Background(), "staff-1", AdmitInput{
		Pet:      PetInfo{Nome: "Thor"},
		Alergias: []string{"Dipirona", " dipirona ", "DIPIRONA", "", "Penicilina"},
	})
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if len(rec.Alergias) != 2 || rec.Alergias[0] != "Dipirona" || rec.Alergias[1] != "Penicilina" {
		t.Fatalf("unexpected allergies: %v", rec.Alergias)
	}
}

func TestAdmit_BoxFailureDoesNotAbort(t *testing.T) {
	env := newTestEnv()
	env.boxes.failWith = errors.New("box offline")

	rec := env.admit(t)
	if _, err := env.svc.Get(context.Background(), rec.ID); err != nil {
		t.Fatalf("record must persist even when the box assignment fails: %v", err)
	}
}

func TestAddPrescription_RecurringSchedule(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)

	rec = env.prescribe(t, rec.ID, validRecorrente())
	if len(rec.Prescricoes) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(rec.Prescricoes))
	}
	p := rec.Prescricoes[0]
	if p.InicioEm != "2026-03-10T08:00:00Z" {
		t.Fatalf("unexpected inicioEm: %q", p.InicioEm)
	}
	if !strings.Contains(p.Resumo, "a cada 8 horas por 2 dias") {
		t.Fatalf("unexpected resumo: %q", p.Resumo)
	}

	// cada 8h por 2 días, extremos incluidos => 7 entradas agendadas
	if len(rec.Execucoes) != 7 {
		t.Fatalf("expected 7 executions, got %d", len(rec.Execucoes))
	}
	for _, e := range rec.Execucoes {
		if e.Status != StatusAgendado || e.PrescricaoID != p.ID || e.SobDemanda {
			t.Fatalf("unexpected execution: %+v", e)
		}
	}
	if rec.Execucoes[0].ProgramadoEm != "2026-03-10T08:00:00Z" || rec.Execucoes[6].ProgramadoEm != "2026-03-12T08:00:00Z" {
		t.Fatalf("unexpected schedule bounds: %+v", rec.Execucoes)
	}
	if rec.Historico[0].Tipo != "prescricao" || !strings.Contains(rec.Historico[0].Descricao, "7 execuções") {
		t.Fatalf("unexpected audit head: %+v", rec.Historico[0])
	}
}

func TestAddPrescription_OnDemandTemplate(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)

	rec = env.prescribe(t, rec.ID, PrescriptionInput{
		Tipo:       "procedimento",
		Frequencia: "necessario",
		Descricao:  "Analgesia de resgate",
		DataInicio: "2026-03-10",
		HoraInicio: "08:00",
	})
	if len(rec.Execucoes) != 1 {
		t.Fatalf("expected a single template, got %d", len(rec.Execucoes))
	}
	tpl := rec.Execucoes[0]
	if !tpl.SobDemanda || tpl.Status != StatusSobDemanda {
		t.Fatalf("expected on-demand template, got %+v", tpl)
	}
}

func TestCompleteExecution(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())
	entryID := rec.Execucoes[0].ID

	// sin fecha u hora no hay conclusión
	if _, err := env.svc.CompleteExecution(context.Background(), rec.ID, entryID, "staff-1", CompletionInput{}); !errors.Is(err, ErrMissingCompletionTime) {
		t.Fatalf("expected ErrMissingCompletionTime, got %v", err)
	}

	// el responsable vacío cae al actor
	rec, err := env.svc.CompleteExecution(context.Background(), rec.ID, entryID, "staff-1", CompletionInput{
		RealizadoData: "2026-03-10",
		RealizadoHora: "08:05",
	})
	if err != nil {
		t.Fatalf("complete execution: %v", err)
	}
	_, done := rec.executionByID(entryID)
	if done == nil || done.Status != StatusConcluida || done.RealizadoPor != "staff-1" {
		t.Fatalf("unexpected completed entry: %+v", done)
	}
	if rec.Historico[0].Tipo != "execucao" {
		t.Fatalf("expected execution audit event, got %+v", rec.Historico[0])
	}
}

func TestCompleteExecution_OnDemandKeepsTemplate(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, PrescriptionInput{
		Tipo:       "procedimento",
		Frequencia: "necessario",
		Descricao:  "Analgesia de resgate",
		DataInicio: "2026-03-10",
		HoraInicio: "08:00",
	})
	tplID := rec.Execucoes[0].ID

	rec, err := env.svc.CompleteExecution(context.Background(), rec.ID, tplID, "staff-1", CompletionInput{
		Responsavel:   "Dr. Huli",
		RealizadoData: "2026-03-11",
		RealizadoHora: "03:15",
	})
	if err != nil {
		t.Fatalf("complete execution: %v", err)
	}
	if len(rec.Execucoes) != 2 {
		t.Fatalf("expected occurrence + template, got %d", len(rec.Execucoes))
	}
	if rec.Execucoes[0].SobDemanda || rec.Execucoes[0].Status != StatusConcluida {
		t.Fatalf("expected concluded occurrence at head, got %+v", rec.Execucoes[0])
	}
	if rec.Execucoes[1].ID != tplID || !rec.Execucoes[1].SobDemanda {
		t.Fatalf("template must survive completion, got %+v", rec.Execucoes[1])
	}
}

func TestInterruptPrescription(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())
	p := rec.Prescricoes[0]

	rec, err := env.svc.CompleteExecution(context.Background(), rec.ID, rec.Execucoes[0].ID, "staff-1", CompletionInput{
		RealizadoData: "2026-03-10",
		RealizadoHora: "08:05",
	})
	if err != nil {
		t.Fatalf("complete execution: %v", err)
	}

	rec, err = env.svc.InterruptPrescription(context.Background(), rec.ID, p.ID, "staff-1")
	if err != nil {
		t.Fatalf("interrupt: %v", err)
	}
	if len(rec.Prescricoes) != 0 {
		t.Fatalf("prescription must be removed, got %+v", rec.Prescricoes)
	}
	if len(rec.Execucoes) != 1 || rec.Execucoes[0].Status != StatusConcluida {
		t.Fatalf("only the completed execution survives, got %+v", rec.Execucoes)
	}
	if !strings.Contains(rec.Historico[0].Descricao, "6 execuções pendentes removidas") ||
		!strings.Contains(rec.Historico[0].Descricao, "1 registros concluídos mantidos") {
		t.Fatalf("unexpected audit text: %q", rec.Historico[0].Descricao)
	}
}

func TestInterruptPrescription_RemovesOnDemandTemplate(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, PrescriptionInput{
		Tipo:       "procedimento",
		Frequencia: "necessario",
		Descricao:  "Analgesia de resgate",
		DataInicio: "2026-03-10",
		HoraInicio: "08:00",
	})

	rec, err := env.svc.InterruptPrescription(context.Background(), rec.ID, rec.Prescricoes[0].ID, "staff-1")
	if err != nil {
		t.Fatalf("interrupt: %v", err)
	}
	if len(rec.Execucoes) != 0 {
		t.Fatalf("template must be purged on interruption, got %+v", rec.Execucoes)
	}
}

func TestDeletePrescription_RemovesEverythingLinked(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())
	p := rec.Prescricoes[0]

	rec, err := env.svc.CompleteExecution(context.Background(), rec.ID, rec.Execucoes[0].ID, "staff-1", CompletionInput{
		RealizadoData: "2026-03-10",
		RealizadoHora: "08:05",
	})
	if err != nil {
		t.Fatalf("complete execution: %v", err)
	}

	rec, err = env.svc.DeletePrescription(context.Background(), rec.ID, p.ID, "staff-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(rec.Execucoes) != 0 {
		t.Fatalf("delete must remove completed entries too, got %+v", rec.Execucoes)
	}
}

func TestRecordOccurrence(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)

	cases := []struct {
		in      OccurrenceInput
		wantMsg string
	}{
		{OccurrenceInput{}, "Informe a data da ocorrência."},
		{OccurrenceInput{Data: "2026-03-10"}, "Informe o horário da ocorrência."},
		{OccurrenceInput{Data: "2026-03-10", Hora: "09:00"}, "Preencha um resumo para a ocorrência."},
		{OccurrenceInput{Data: "2026-03-10", Hora: "09:00", Resumo: "Febre"}, "Descreva a ocorrência antes de salvar."},
	}
	for _, tc := range cases {
		_, err := env.svc.RecordOccurrence(context.Background(), rec.ID, "staff-1", tc.in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Msg != tc.wantMsg {
			t.Fatalf("expected %q, got %v", tc.wantMsg, err)
		}
	}

	rec, err := env.svc.RecordOccurrence(context.Background(), rec.ID, "staff-1", OccurrenceInput{
		Data:      "2026-03-10",
		Hora:      "09:00",
		Resumo:    "Temperatura 39.1",
		Descricao: "Leve febre ao amanhecer.",
	})
	if err != nil {
		t.Fatalf("record occurrence: %v", err)
	}
	head := rec.Execucoes[0]
	if head.Status != StatusConcluida || head.RealizadoPor != "staff-1" || head.Descricao != "Temperatura 39.1" {
		t.Fatalf("unexpected occurrence entry: %+v", head)
	}
	if rec.Historico[0].Tipo != "ocorrencia" {
		t.Fatalf("expected occurrence audit event, got %+v", rec.Historico[0])
	}
}

func TestReassignBox(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)

	if _, err := env.svc.ReassignBox(context.Background(), rec.ID, "staff-1", "  "); err == nil {
		t.Fatal("expected validation error for empty box")
	}
	_, err := env.svc.ReassignBox(context.Background(), rec.ID, "staff-1", "Box 01")
	if !errors.Is(err, ErrSameBox) {
		t.Fatalf("expected ErrSameBox, got %v", err)
	}
	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("same-box move should be a state error, got %T", err)
	}

	rec, err = env.svc.ReassignBox(context.Background(), rec.ID, "staff-1", "Box 02")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if rec.Box != "Box 02" {
		t.Fatalf("expected Box 02, got %q", rec.Box)
	}
	if len(env.boxes.released) != 1 || env.boxes.released[0] != "Box 01" {
		t.Fatalf("expected old box released, got %v", env.boxes.released)
	}
	if env.boxes.assigned[len(env.boxes.assigned)-1] != "Box 02/Thor" {
		t.Fatalf("expected new box occupied, got %v", env.boxes.assigned)
	}
	if rec.Historico[0].Tipo != "box" || !strings.Contains(rec.Historico[0].Descricao, "do box Box 01 para o box Box 02") {
		t.Fatalf("unexpected audit: %+v", rec.Historico[0])
	}
}

func TestDischarge(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())
	rec, err := env.svc.CompleteExecution(context.Background(), rec.ID, rec.Execucoes[0].ID, "staff-1", CompletionInput{
		RealizadoData: "2026-03-10",
		RealizadoHora: "08:05",
	})
	if err != nil {
		t.Fatalf("complete execution: %v", err)
	}

	rec, err = env.svc.Discharge(context.Background(), rec.ID, "staff-1", DischargeInput{
		Responsavel: "Dra. Paula",
		Data:        "2026-03-12",
		Hora:        "10:00",
		Observacoes: "Retorno em 7 dias.",
	})
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if rec.State != StateDischarged || rec.Alta == nil {
		t.Fatalf("unexpected state: %+v", rec)
	}
	if rec.Alta.ConfirmadaEm != "2026-03-12T10:00:00Z" {
		t.Fatalf("unexpected confirmadaEm: %q", rec.Alta.ConfirmadaEm)
	}
	// la purga del alta deja sólo lo concluido
	if len(rec.Execucoes) != 1 || rec.Execucoes[0].Status != StatusConcluida {
		t.Fatalf("expected only the completed entry, got %+v", rec.Execucoes)
	}
	if rec.Box != "" || len(env.boxes.released) != 1 {
		t.Fatalf("expected box released, rec.Box=%q released=%v", rec.Box, env.boxes.released)
	}
	if !strings.Contains(rec.Historico[0].Descricao, "6 execuções pendentes interrompidas") {
		t.Fatalf("unexpected audit: %q", rec.Historico[0].Descricao)
	}
}

func TestDischarge_RequiredFields(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)

	cases := []struct {
		in      DischargeInput
		wantMsg string
	}{
		{DischargeInput{}, "Informe o responsável pela alta."},
		{DischargeInput{Responsavel: "Dra. Paula"}, "Informe a data da alta."},
		{DischargeInput{Responsavel: "Dra. Paula", Data: "2026-03-12"}, "Informe o horário da alta."},
		{DischargeInput{Responsavel: "Dra. Paula", Data: "2026-03-12", Hora: "10:00"}, "Descreva as orientações da alta."},
	}
	for _, tc := range cases {
		_, err := env.svc.Discharge(context.Background(), rec.ID, "staff-1", tc.in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Msg != tc.wantMsg {
			t.Fatalf("expected %q, got %v", tc.wantMsg, err)
		}
	}
}

func TestRegisterDeath(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())

	rec, err := env.svc.RegisterDeath(context.Background(), rec.ID, "staff-1", DeathInput{
		Veterinario: "Dr. Huli",
		Data:        "2026-03-10",
		Hora:        "15:40",
		Causa:       "Parada cardiorrespiratória",
		Relatorio:   "Paciente não respondeu às manobras de reanimação.",
	})
	if err != nil {
		t.Fatalf("register death: %v", err)
	}
	if rec.State != StateDeceased || rec.Obito == nil {
		t.Fatalf("unexpected state: %+v", rec)
	}
	// a diferencia del alta, la agenda pendiente queda en la ficha
	if len(rec.Execucoes) != 7 {
		t.Fatalf("expected schedule kept after death, got %d entries", len(rec.Execucoes))
	}
	if !strings.Contains(rec.Historico[0].Descricao, "7 execuções pendentes mantidas") {
		t.Fatalf("unexpected audit: %q", rec.Historico[0].Descricao)
	}
	if len(env.boxes.released) != 1 {
		t.Fatalf("expected box released, got %v", env.boxes.released)
	}
	if len(env.registry.deceased) != 1 || env.registry.deceased[0] != "pet-1" {
		t.Fatalf("expected patient marked deceased, got %v", env.registry.deceased)
	}
}

func TestRegisterDeath_RegistryFailureDoesNotAbort(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	env.registry.failWith = errors.New("registry offline")

	rec, err := env.svc.RegisterDeath(context.Background(), rec.ID, "staff-1", DeathInput{
		Veterinario: "Dr. Huli",
		Data:        "2026-03-10",
		Hora:        "15:40",
		Causa:       "Parada cardiorrespiratória",
		Relatorio:   "Relatório completo.",
	})
	if err != nil {
		t.Fatalf("register death: %v", err)
	}
	if rec.State != StateDeceased {
		t.Fatalf("death must persist even when the registry sync fails, got %q", rec.State)
	}
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())

	rec, err := env.svc.Cancel(context.Background(), rec.ID, "staff-1", CancelInput{
		Responsavel:   "Recepção",
		Data:          "2026-03-10",
		Hora:          "16:00",
		Justificativa: "Registro duplicado",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if rec.State != StateCancelled || rec.Cancelamento == nil {
		t.Fatalf("unexpected state: %+v", rec)
	}
	if len(rec.Execucoes) != 7 {
		t.Fatalf("cancellation must not purge the schedule, got %d entries", len(rec.Execucoes))
	}
	if len(env.boxes.released) != 1 {
		t.Fatalf("expected box released, got %v", env.boxes.released)
	}
}

func TestTerminalStateBlocksMutations(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)

	if _, err := env.svc.Discharge(context.Background(), rec.ID, "staff-1", DischargeInput{
		Responsavel: "Dra. Paula",
		Data:        "2026-03-12",
		Hora:        "10:00",
		Observacoes: "Retorno em 7 dias.",
	}); err != nil {
		t.Fatalf("discharge: %v", err)
	}

	veterinario := "Dr. Huli"
	mutations := map[string]func() error{
		"update": func() error {
			_, err := env.svc.UpdateRecord(context.Background(), rec.ID, "staff-1", UpdateInput{Veterinario: &veterinario})
			return err
		},
		"prescribe": func() error {
			_, err := env.svc.AddPrescription(context.Background(), rec.ID, "staff-1", validRecorrente())
			return err
		},
		"occurrence": func() error {
			_, err := env.svc.RecordOccurrence(context.Background(), rec.ID, "staff-1", OccurrenceInput{
				Data: "2026-03-13", Hora: "09:00", Resumo: "Febre", Descricao: "Detalle",
			})
			return err
		},
		"reassign box": func() error {
			_, err := env.svc.ReassignBox(context.Background(), rec.ID, "staff-1", "Box 02")
			return err
		},
		"death": func() error {
			_, err := env.svc.RegisterDeath(context.Background(), rec.ID, "staff-1", DeathInput{
				Veterinario: "Dr. Huli", Data: "2026-03-13", Hora: "09:00", Causa: "x", Relatorio: "y",
			})
			return err
		},
		"cancel": func() error {
			_, err := env.svc.Cancel(context.Background(), rec.ID, "staff-1", CancelInput{
				Responsavel: "Recepção", Data: "2026-03-13", Hora: "09:00", Justificativa: "z",
			})
			return err
		},
	}
	for name, fn := range mutations {
		var ise *InvalidStateError
		if err := fn(); !errors.As(err, &ise) {
			t.Fatalf("%s: expected InvalidStateError, got %v", name, err)
		} else if ise.State != StateDischarged {
			t.Fatalf("%s: expected blocked by discharge, got %q", name, ise.State)
		}
	}

	// el registro de alta original quedó intacto
	stored, err := env.svc.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.State != StateDischarged || stored.Alta == nil || stored.Obito != nil || stored.Cancelamento != nil {
		t.Fatalf("terminal metadata corrupted: %+v", stored)
	}
}

func TestAuditTrailIsNewestFirst(t *testing.T) {
	env := newTestEnv()
	rec := env.admit(t)
	rec = env.prescribe(t, rec.ID, validRecorrente())

	if len(rec.Historico) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(rec.Historico))
	}
	if rec.Historico[0].Tipo != "prescricao" || rec.Historico[1].Tipo != "admissao" {
		t.Fatalf("expected newest-first order, got %+v", rec.Historico)
	}
}
