package admissions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pet-inpatient-care/internal/domain/schedule"
	"pet-inpatient-care/internal/observability/metrics"
	"pet-inpatient-care/internal/ports/notify"
	"pet-inpatient-care/internal/ports/patients"
)

// BoxAllocator es la vista que la internación necesita del registro de
// boxes: ocupar y liberar. Los fallos acá son best-effort (se loguean,
// nunca revierten la transición primaria).
type BoxAllocator interface {
	Assign(ctx context.Context, name, occupant string) error
	Release(ctx context.Context, name string) error
}

type Deps struct {
	Repo     Repository
	Boxes    BoxAllocator
	Patients patients.Registry
	Notifier notify.Notifier
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

type Service struct {
	repo     Repository
	boxes    BoxAllocator
	patients patients.Registry
	notifier notify.Notifier
	log      *zap.Logger
	metrics  *metrics.Metrics

	gen   schedule.Generator
	now   func() time.Time
	newID func() string
}

func NewService(d Deps) *Service {
	s := &Service{
		repo:     d.Repo,
		boxes:    d.Boxes,
		patients: d.Patients,
		notifier: d.Notifier,
		log:      d.Logger,
		metrics:  d.Metrics,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if s.patients == nil {
		s.patients = patients.Noop{}
	}
	if s.notifier == nil {
		s.notifier = notify.Noop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *Service) Get(ctx context.Context, id string) (AdmissionRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]AdmissionRecord, error) {
	return s.repo.List(ctx)
}

// AdmitInput es la ficha de admisión.
type AdmitInput struct {
	Pet   PetInfo   `json:"pet"`
	Tutor TutorInfo `json:"tutor"`

	Situacao       string `json:"situacao"`
	SituacaoCodigo string `json:"situacaoCodigo"`
	Risco          string `json:"risco"`
	RiscoCodigo    string `json:"riscoCodigo"`
	Veterinario    string `json:"veterinario"`
	Box            string `json:"box"`

	AltaPrevistaData string `json:"altaPrevistaData"`
	AltaPrevistaHora string `json:"altaPrevistaHora"`

	Queixa      string   `json:"queixa"`
	Diagnostico string   `json:"diagnostico"`
	Prognostico string   `json:"prognostico"`
	Alergias    []string `json:"alergias"`
	Acessorios  string   `json:"acessorios"`
	Observacoes string   `json:"observacoes"`
}

func (s *Service) Admit(ctx context.Context, actor string, in AdmitInput) (AdmissionRecord, error) {
	if strings.TrimSpace(in.Pet.Nome) == "" {
		return AdmissionRecord{}, invalid("pet", "Selecione um paciente válido antes de salvar.")
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return AdmissionRecord{}, err
	}

	now := s.now()
	rec := AdmissionRecord{
		ID:               s.newID(),
		Codigo:           codigo,
		Pet:              in.Pet,
		Tutor:            in.Tutor,
		Situacao:         in.Situacao,
		SituacaoCodigo:   in.SituacaoCodigo,
		Risco:            in.Risco,
		RiscoCodigo:      in.RiscoCodigo,
		Veterinario:      strings.TrimSpace(in.Veterinario),
		Box:              strings.TrimSpace(in.Box),
		AltaPrevistaData: in.AltaPrevistaData,
		AltaPrevistaHora: in.AltaPrevistaHora,
		Queixa:           in.Queixa,
		Diagnostico:      in.Diagnostico,
		Prognostico:      in.Prognostico,
		Alergias:         dedupeTags(in.Alergias),
		Acessorios:       in.Acessorios,
		Observacoes:      in.Observacoes,
		State:            StateAdmitted,
		CreatedAt:        now,
		UpdatedAt:        now,
		Version:          1,
	}
	rec.appendAudit("admissao", fmt.Sprintf("Paciente %s internado (registro nº %d).", rec.Pet.Nome, rec.Codigo), actor, now, s.newID)

	if err := s.repo.Create(ctx, rec); err != nil {
		return AdmissionRecord{}, err
	}

	if rec.Box != "" {
		s.assignBox(ctx, rec.Box, rec.Pet.Nome)
	}
	s.metrics.AdmissionCreated()
	s.notify(ctx, rec.ID, "admissao", "Paciente internado.")
	return rec, nil
}

// UpdateInput cubre los campos editables de la ficha. El box no se toca
// por acá; el movimiento pasa por ReassignBox.
type UpdateInput struct {
	Situacao         *string   `json:"situacao"`
	SituacaoCodigo   *string   `json:"situacaoCodigo"`
	Risco            *string   `json:"risco"`
	RiscoCodigo      *string   `json:"riscoCodigo"`
	Veterinario      *string   `json:"veterinario"`
	AltaPrevistaData *string   `json:"altaPrevistaData"`
	AltaPrevistaHora *string   `json:"altaPrevistaHora"`
	Queixa           *string   `json:"queixa"`
	Diagnostico      *string   `json:"diagnostico"`
	Prognostico      *string   `json:"prognostico"`
	Alergias         *[]string `json:"alergias"`
	Acessorios       *string   `json:"acessorios"`
	Observacoes      *string   `json:"observacoes"`
}

func (s *Service) UpdateRecord(ctx context.Context, recordID, actor string, in UpdateInput) (AdmissionRecord, error) {
	return s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		set(&rec.Situacao, in.Situacao)
		set(&rec.SituacaoCodigo, in.SituacaoCodigo)
		set(&rec.Risco, in.Risco)
		set(&rec.RiscoCodigo, in.RiscoCodigo)
		set(&rec.Veterinario, in.Veterinario)
		set(&rec.AltaPrevistaData, in.AltaPrevistaData)
		set(&rec.AltaPrevistaHora, in.AltaPrevistaHora)
		set(&rec.Queixa, in.Queixa)
		set(&rec.Diagnostico, in.Diagnostico)
		set(&rec.Prognostico, in.Prognostico)
		set(&rec.Acessorios, in.Acessorios)
		set(&rec.Observacoes, in.Observacoes)
		if in.Alergias != nil {
			rec.Alergias = dedupeTags(*in.Alergias)
		}
		rec.appendAudit("ficha", "Dados da internação atualizados.", actor, s.now(), s.newID)
		return nil
	})
}

func (s *Service) AddPrescription(ctx context.Context, recordID, actor string, in PrescriptionInput) (AdmissionRecord, error) {
	if err := ValidatePrescription(in); err != nil {
		return AdmissionRecord{}, err
	}
	in.normalize()

	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}

		now := s.now()
		p := Prescription{
			ID:         s.newID(),
			Tipo:       in.Tipo,
			Frequencia: in.Frequencia,
			Descricao:  in.Descricao,

			ACadaValor:   in.ACadaValor,
			ACadaUnidade: in.ACadaUnidade,
			PorValor:     in.PorValor,
			PorUnidade:   in.PorUnidade,
			DataInicio:   in.DataInicio,
			HoraInicio:   in.HoraInicio,
			InicioEm:     schedule.CombineDateAndTime(in.DataInicio, in.HoraInicio),

			MedUnidade: in.MedUnidade,
			MedDose:    in.MedDose,
			MedVia:     in.MedVia,
			MedPeso:    in.MedPeso,

			FluidFluido:            in.FluidFluido,
			FluidEquipo:            in.FluidEquipo,
			FluidUnidade:           in.FluidUnidade,
			FluidDose:              in.FluidDose,
			FluidVia:               in.FluidVia,
			FluidVelocidadeValor:   in.FluidVelocidadeValor,
			FluidVelocidadeUnidade: in.FluidVelocidadeUnidade,
			FluidSuplemento:        in.FluidSuplemento,

			CriadoPor: actor,
			CriadoEm:  now,
		}
		p.Resumo = buildResumo(p)

		drafts := s.gen.Entries(schedule.Input{
			Frequencia:   in.Frequencia,
			DataInicio:   in.DataInicio,
			HoraInicio:   in.HoraInicio,
			ACadaValor:   in.ACadaValor,
			ACadaUnidade: in.ACadaUnidade,
			PorValor:     in.PorValor,
			PorUnidade:   in.PorUnidade,
		})
		for _, d := range drafts {
			rec.Execucoes = append(rec.Execucoes, ExecutionEntry{
				ID:             s.newID(),
				PrescricaoID:   p.ID,
				Descricao:      p.Descricao,
				Status:         d.Status,
				SobDemanda:     d.SobDemanda,
				ProgramadoData: d.ProgramadoData,
				ProgramadoHora: d.ProgramadoHora,
				ProgramadoEm:   d.ProgramadoEm,
			})
		}

		rec.Prescricoes = append(rec.Prescricoes, p)
		rec.appendAudit("prescricao",
			fmt.Sprintf("Prescrição registrada: %s (%d execuções na agenda).", p.Descricao, len(drafts)),
			actor, now, s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	s.metrics.PrescriptionCreated()
	s.notify(ctx, rec.ID, "prescricao", "Nova prescrição registrada.")
	return rec, nil
}

func (s *Service) InterruptPrescription(ctx context.Context, recordID, prescriptionID, actor string) (AdmissionRecord, error) {
	var removed int
	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}
		idx, p := rec.prescriptionByID(prescriptionID)
		if p == nil {
			return ErrNotFound
		}
		target := *p

		// la interrupción de una orden sob demanda remueve también la
		// plantilla: no queda "próxima aplicación" que cancelar
		removed = rec.purgePending(false, func(e ExecutionEntry) bool {
			return matchesPrescription(e, target)
		})
		kept := 0
		for _, e := range rec.Execucoes {
			if matchesPrescription(e, target) {
				kept++
			}
		}

		rec.Prescricoes = append(rec.Prescricoes[:idx], rec.Prescricoes[idx+1:]...)
		rec.appendAudit("prescricao",
			fmt.Sprintf("Prescrição interrompida: %s. %d execuções pendentes removidas; %d registros concluídos mantidos.",
				target.Descricao, removed, kept),
			actor, s.now(), s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	s.metrics.ExecutionsRemoved(removed)
	s.notify(ctx, rec.ID, "prescricao", "Prescrição interrompida.")
	return rec, nil
}

func (s *Service) DeletePrescription(ctx context.Context, recordID, prescriptionID, actor string) (AdmissionRecord, error) {
	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}
		idx, p := rec.prescriptionByID(prescriptionID)
		if p == nil {
			return ErrNotFound
		}
		target := *p

		removed := rec.removeLinked(target)
		rec.Prescricoes = append(rec.Prescricoes[:idx], rec.Prescricoes[idx+1:]...)
		rec.appendAudit("prescricao",
			fmt.Sprintf("Prescrição excluída: %s. %d execuções removidas da ficha.", target.Descricao, removed),
			actor, s.now(), s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	s.notify(ctx, rec.ID, "prescricao", "Prescrição excluída.")
	return rec, nil
}

func (s *Service) CompleteExecution(ctx context.Context, recordID, entryID, actor string, in CompletionInput) (AdmissionRecord, error) {
	if strings.TrimSpace(in.RealizadoData) == "" || strings.TrimSpace(in.RealizadoHora) == "" {
		return AdmissionRecord{}, ErrMissingCompletionTime
	}
	if strings.TrimSpace(in.Responsavel) == "" {
		in.Responsavel = actor
	}

	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}
		idx, entry := rec.executionByID(entryID)
		if entry == nil {
			return ErrNotFound
		}

		realizadoEm := schedule.CombineDateAndTime(in.RealizadoData, in.RealizadoHora)
		done := rec.completeEntry(idx, in, realizadoEm, s.newID)
		rec.appendAudit("execucao",
			fmt.Sprintf("Execução %s: %s em %s às %s.",
				strings.ToLower(done.Status), done.Descricao, in.RealizadoData, in.RealizadoHora),
			actor, s.now(), s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	s.metrics.ExecutionCompleted()
	s.notify(ctx, rec.ID, "execucao", "Execução atualizada.")
	return rec, nil
}

// OccurrenceInput es el registro ad hoc de parámetros clínicos u otra
// ocurrencia observada; entra a la agenda ya concluido.
type OccurrenceInput struct {
	Data      string `json:"data"`
	Hora      string `json:"hora"`
	Resumo    string `json:"resumo"`
	Descricao string `json:"descricao"`
}

func (s *Service) RecordOccurrence(ctx context.Context, recordID, actor string, in OccurrenceInput) (AdmissionRecord, error) {
	in.Data = strings.TrimSpace(in.Data)
	in.Hora = strings.TrimSpace(in.Hora)
	in.Resumo = strings.TrimSpace(in.Resumo)
	in.Descricao = strings.TrimSpace(in.Descricao)

	if in.Data == "" {
		return AdmissionRecord{}, invalid("data", "Informe a data da ocorrência.")
	}
	if in.Hora == "" {
		return AdmissionRecord{}, invalid("hora", "Informe o horário da ocorrência.")
	}
	if in.Resumo == "" {
		return AdmissionRecord{}, invalid("resumo", "Preencha um resumo para a ocorrência.")
	}
	if in.Descricao == "" {
		return AdmissionRecord{}, invalid("descricao", "Descreva a ocorrência antes de salvar.")
	}

	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}
		registradoEm := schedule.CombineDateAndTime(in.Data, in.Hora)
		entry := ExecutionEntry{
			ID:             s.newID(),
			Descricao:      in.Resumo,
			Responsavel:    actor,
			Status:         StatusConcluida,
			ProgramadoData: in.Data,
			ProgramadoHora: in.Hora,
			ProgramadoEm:   registradoEm,
			RealizadoData:  in.Data,
			RealizadoHora:  in.Hora,
			RealizadoEm:    registradoEm,
			RealizadoPor:   actor,
			Observacoes:    in.Descricao,
		}
		rec.Execucoes = append([]ExecutionEntry{entry}, rec.Execucoes...)
		rec.appendAudit("ocorrencia", fmt.Sprintf("Ocorrência registrada: %s.", in.Resumo), actor, s.now(), s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	s.notify(ctx, rec.ID, "ocorrencia", "Ocorrência registrada.")
	return rec, nil
}

func (s *Service) ReassignBox(ctx context.Context, recordID, actor, newBox string) (AdmissionRecord, error) {
	newBox = strings.TrimSpace(newBox)
	if newBox == "" {
		return AdmissionRecord{}, invalid("box", "Selecione o box de destino.")
	}

	var oldBox string
	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}
		if rec.Box == newBox {
			return ErrSameBox
		}
		oldBox = rec.Box
		rec.Box = newBox
		if oldBox == "" {
			rec.appendAudit("box", fmt.Sprintf("Paciente alocado no box %s.", newBox), actor, s.now(), s.newID)
		} else {
			rec.appendAudit("box", fmt.Sprintf("Paciente movido do box %s para o box %s.", oldBox, newBox), actor, s.now(), s.newID)
		}
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	if oldBox != "" {
		s.releaseBox(ctx, oldBox)
	}
	s.assignBox(ctx, newBox, rec.Pet.Nome)
	s.notify(ctx, rec.ID, "box", "Paciente movido de box.")
	return rec, nil
}

type DischargeInput struct {
	Responsavel string `json:"responsavel"`
	Data        string `json:"data"`
	Hora        string `json:"hora"`
	Observacoes string `json:"observacoes"`
}

func (s *Service) Discharge(ctx context.Context, recordID, actor string, in DischargeInput) (AdmissionRecord, error) {
	if strings.TrimSpace(in.Responsavel) == "" {
		return AdmissionRecord{}, invalid("responsavel", "Informe o responsável pela alta.")
	}
	if strings.TrimSpace(in.Data) == "" {
		return AdmissionRecord{}, invalid("data", "Informe a data da alta.")
	}
	if strings.TrimSpace(in.Hora) == "" {
		return AdmissionRecord{}, invalid("hora", "Informe o horário da alta.")
	}
	if strings.TrimSpace(in.Observacoes) == "" {
		return AdmissionRecord{}, invalid("observacoes", "Descreva as orientações da alta.")
	}

	var oldBox string
	var removed int
	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}

		// después del alta no queda trabajo agendado que valga:
		// se purga todo lo pendiente, plantillas incluidas
		removed = rec.purgePending(false, func(ExecutionEntry) bool { return true })

		now := s.now()
		rec.State = StateDischarged
		rec.Alta = &Alta{
			Responsavel:  in.Responsavel,
			Data:         in.Data,
			Hora:         in.Hora,
			ConfirmadaEm: schedule.CombineDateAndTime(in.Data, in.Hora),
			Observacoes:  in.Observacoes,
			RegistradaEm: now,
		}
		oldBox = rec.Box
		rec.Box = ""
		rec.appendAudit("alta",
			fmt.Sprintf("Alta confirmada por %s. %d execuções pendentes interrompidas.", in.Responsavel, removed),
			actor, now, s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	if oldBox != "" {
		s.releaseBox(ctx, oldBox)
	}
	s.metrics.ExecutionsRemoved(removed)
	s.notify(ctx, rec.ID, "alta", "Alta confirmada.")
	return rec, nil
}

type DeathInput struct {
	Veterinario string `json:"veterinario"`
	Data        string `json:"data"`
	Hora        string `json:"hora"`
	Causa       string `json:"causa"`
	Relatorio   string `json:"relatorio"`
}

func (s *Service) RegisterDeath(ctx context.Context, recordID, actor string, in DeathInput) (AdmissionRecord, error) {
	if strings.TrimSpace(in.Veterinario) == "" {
		return AdmissionRecord{}, invalid("veterinario", "Informe o veterinário responsável.")
	}
	if strings.TrimSpace(in.Data) == "" {
		return AdmissionRecord{}, invalid("data", "Informe a data do óbito.")
	}
	if strings.TrimSpace(in.Hora) == "" {
		return AdmissionRecord{}, invalid("hora", "Informe o horário do óbito.")
	}
	if strings.TrimSpace(in.Causa) == "" {
		return AdmissionRecord{}, invalid("causa", "Descreva a causa do óbito.")
	}
	if strings.TrimSpace(in.Relatorio) == "" {
		return AdmissionRecord{}, invalid("relatorio", "Preencha o relatório do óbito.")
	}

	var oldBox string
	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}

		now := s.now()
		rec.State = StateDeceased
		rec.Obito = &Obito{
			Veterinario:  in.Veterinario,
			Data:         in.Data,
			Hora:         in.Hora,
			ConfirmadoEm: schedule.CombineDateAndTime(in.Data, in.Hora),
			Causa:        in.Causa,
			Relatorio:    in.Relatorio,
			RegistradoEm: now,
		}
		oldBox = rec.Box
		rec.Box = ""
		// a diferencia del alta, acá no se purga: la agenda pendiente
		// queda como registro de lo que estaba en curso
		rec.appendAudit("obito",
			fmt.Sprintf("Óbito registrado pelo veterinário %s. %d execuções pendentes mantidas na ficha.",
				in.Veterinario, rec.countPending()),
			actor, now, s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	if oldBox != "" {
		s.releaseBox(ctx, oldBox)
	}
	if rec.Pet.ID != "" {
		if err := s.patients.MarkDeceased(ctx, rec.Pet.ID); err != nil {
			s.log.Warn("internacao: falha ao sincronizar óbito com o cadastro de pacientes",
				zap.String("record_id", rec.ID), zap.String("pet_id", rec.Pet.ID), zap.Error(err))
		}
	}
	s.notify(ctx, rec.ID, "obito", "Óbito registrado.")
	return rec, nil
}

type CancelInput struct {
	Responsavel   string `json:"responsavel"`
	Data          string `json:"data"`
	Hora          string `json:"hora"`
	Justificativa string `json:"justificativa"`
	Observacoes   string `json:"observacoes"`
}

func (s *Service) Cancel(ctx context.Context, recordID, actor string, in CancelInput) (AdmissionRecord, error) {
	if strings.TrimSpace(in.Responsavel) == "" {
		return AdmissionRecord{}, invalid("responsavel", "Informe o responsável pelo cancelamento.")
	}
	if strings.TrimSpace(in.Data) == "" {
		return AdmissionRecord{}, invalid("data", "Informe a data do cancelamento.")
	}
	if strings.TrimSpace(in.Hora) == "" {
		return AdmissionRecord{}, invalid("hora", "Informe o horário do cancelamento.")
	}
	if strings.TrimSpace(in.Justificativa) == "" {
		return AdmissionRecord{}, invalid("justificativa", "Descreva a justificativa do cancelamento.")
	}

	var oldBox string
	rec, err := s.mutate(ctx, recordID, func(rec *AdmissionRecord) error {
		if rec.State.Terminal() {
			return blockedBy(rec.State)
		}

		now := s.now()
		rec.State = StateCancelled
		rec.Cancelamento = &Cancelamento{
			Responsavel:   in.Responsavel,
			Data:          in.Data,
			Hora:          in.Hora,
			ConfirmadoEm:  schedule.CombineDateAndTime(in.Data, in.Hora),
			Justificativa: in.Justificativa,
			Observacoes:   in.Observacoes,
			RegistradoEm:  now,
		}
		oldBox = rec.Box
		rec.Box = ""
		rec.appendAudit("cancelamento",
			fmt.Sprintf("Internação cancelada por %s.", in.Responsavel), actor, now, s.newID)
		return nil
	})
	if err != nil {
		return AdmissionRecord{}, err
	}

	if oldBox != "" {
		s.releaseBox(ctx, oldBox)
	}
	s.notify(ctx, rec.ID, "cancelamento", "Internação cancelada.")
	return rec, nil
}

// mutate aplica fn sobre una copia fresca del registro y persiste con
// check de versión. Una sola tentativa: ErrConflict sube al llamador.
func (s *Service) mutate(ctx context.Context, id string, fn func(*AdmissionRecord) error) (AdmissionRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AdmissionRecord{}, err
	}
	if err := fn(&rec); err != nil {
		return AdmissionRecord{}, err
	}
	rec.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return AdmissionRecord{}, err
	}
	rec.Version++
	return rec, nil
}

func (s *Service) assignBox(ctx context.Context, name, occupant string) {
	if s.boxes == nil {
		return
	}
	if err := s.boxes.Assign(ctx, name, occupant); err != nil {
		s.log.Warn("internacao: falha ao ocupar box", zap.String("box", name), zap.Error(err))
		return
	}
	s.metrics.BoxOccupancy(1)
}

func (s *Service) releaseBox(ctx context.Context, name string) {
	if s.boxes == nil {
		return
	}
	if err := s.boxes.Release(ctx, name); err != nil {
		s.log.Warn("internacao: falha ao liberar box", zap.String("box", name), zap.Error(err))
		return
	}
	s.metrics.BoxOccupancy(-1)
}

func (s *Service) notify(ctx context.Context, recordID, tipo, resumo string) {
	if err := s.notifier.RecordUpdated(ctx, notify.Event{
		RecordID: recordID,
		Tipo:     tipo,
		Resumo:   resumo,
		At:       s.now(),
	}); err != nil {
		s.log.Warn("internacao: falha ao publicar evento", zap.String("record_id", recordID), zap.Error(err))
	}
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := normalizeKey(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

// buildResumo arma la línea de resumen que la agenda muestra junto a la
// prescripción.
func buildResumo(p Prescription) string {
	var b strings.Builder
	b.WriteString(p.Descricao)

	switch normalizeKey(p.Frequencia) {
	case FrequenciaRecorrente:
		fmt.Fprintf(&b, " · a cada %s %s por %s %s", p.ACadaValor, p.ACadaUnidade, p.PorValor, p.PorUnidade)
	case FrequenciaUnica:
		fmt.Fprintf(&b, " · aplicação única em %s às %s", p.DataInicio, p.HoraInicio)
	default:
		b.WriteString(" · quando necessário")
	}

	switch normalizeKey(p.Tipo) {
	case TipoMedicamento:
		if p.MedDose != "" {
			fmt.Fprintf(&b, ". Dose: %s %s, via %s", p.MedDose, p.MedUnidade, p.MedVia)
		}
	case TipoFluidoterapia:
		if p.FluidDose != "" {
			fmt.Fprintf(&b, ". Fluidoterapia: %s %s, via %s", p.FluidDose, p.FluidUnidade, p.FluidVia)
		}
		if p.FluidVelocidadeValor != "" {
			fmt.Fprintf(&b, " (%s %s)", p.FluidVelocidadeValor, p.FluidVelocidadeUnidade)
		}
	}
	b.WriteString(".")
	return b.String()
}
