package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-inpatient-care/internal/domain/admissions"
)

type admissionsRepo struct {
	mu     sync.RWMutex
	byID   map[string]admissions.AdmissionRecord
	codigo int64
}

func NewAdmissionsRepo() admissions.Repository {
	return &admissionsRepo{
		byID: make(map[string]admissions.AdmissionRecord),
	}
}

func (r *admissionsRepo) Create(ctx context.Context, rec admissions.AdmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}

	r.byID[rec.ID] = cloneRecord(rec)
	return nil
}

// Update aplica el check optimista: la versión guardada tiene que ser
// exactamente la que el llamador leyó.
func (r *admissionsRepo) Update(ctx context.Context, rec admissions.AdmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[rec.ID]
	if !ok {
		return admissions.ErrNotFound
	}
	if current.Version != rec.Version {
		return admissions.ErrConflict
	}

	rec.Version++
	r.byID[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *admissionsRepo) GetByID(ctx context.Context, id string) (admissions.AdmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return admissions.AdmissionRecord{}, admissions.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *admissionsRepo) List(ctx context.Context) ([]admissions.AdmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]admissions.AdmissionRecord, 0, len(r.byID))
	for _, rec := range r.byID {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *admissionsRepo) NextCodigo(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codigo++
	return r.codigo, nil
}

// cloneRecord copia el documento completo para que el mapa interno
// nunca comparta slices ni punteros con los llamadores.
func cloneRecord(rec admissions.AdmissionRecord) admissions.AdmissionRecord {
	out := rec

	if rec.Alergias != nil {
		out.Alergias = append([]string(nil), rec.Alergias...)
	}
	if rec.Prescricoes != nil {
		out.Prescricoes = append([]admissions.Prescription(nil), rec.Prescricoes...)
	}
	if rec.Execucoes != nil {
		out.Execucoes = append([]admissions.ExecutionEntry(nil), rec.Execucoes...)
	}
	if rec.Historico != nil {
		out.Historico = append([]admissions.AuditEvent(nil), rec.Historico...)
	}

	if rec.Alta != nil {
		alta := *rec.Alta
		out.Alta = &alta
	}
	if rec.Obito != nil {
		obito := *rec.Obito
		out.Obito = &obito
	}
	if rec.Cancelamento != nil {
		cancel := *rec.Cancelamento
		out.Cancelamento = &cancel
	}
	return out
}
