package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"pet-inpatient-care/internal/domain/admissions"
)

// AdmissionsRepo guarda la ficha como fila escalar + columnas JSONB
// para las colecciones embebidas (prescricoes, execucoes, historico).
// La ficha viaja entera en cada escritura; la serialización la da el
// check de versión, no un lock.
type AdmissionsRepo struct {
	db *sql.DB
}

func NewAdmissionsRepo(db *sql.DB) *AdmissionsRepo {
	return &AdmissionsRepo{db: db}
}

const admissionColumns = `
	id, codigo,
	pet, tutor,
	situacao, situacao_codigo, risco, risco_codigo, veterinario, box,
	alta_prevista_data, alta_prevista_hora,
	queixa, diagnostico, prognostico, alergias, acessorios, observacoes,
	estado, alta, obito, cancelamento,
	prescricoes, execucoes, historico,
	created_at, updated_at, version
`

func (r *AdmissionsRepo) Create(ctx context.Context, rec admissions.AdmissionRecord) error {
	doc, err := marshalRecord(rec)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO internacao_registros (`+admissionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
	`,
		rec.ID, rec.Codigo,
		doc.pet, doc.tutor,
		rec.Situacao, rec.SituacaoCodigo, rec.Risco, rec.RiscoCodigo, rec.Veterinario, rec.Box,
		rec.AltaPrevistaData, rec.AltaPrevistaHora,
		rec.Queixa, rec.Diagnostico, rec.Prognostico, doc.alergias, rec.Acessorios, rec.Observacoes,
		string(rec.State), doc.alta, doc.obito, doc.cancelamento,
		doc.prescricoes, doc.execucoes, doc.historico,
		rec.CreatedAt, rec.UpdatedAt, rec.Version,
	)
	return err
}

func (r *AdmissionsRepo) Update(ctx context.Context, rec admissions.AdmissionRecord) error {
	doc, err := marshalRecord(rec)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE internacao_registros SET
			pet = $2, tutor = $3,
			situacao = $4, situacao_codigo = $5, risco = $6, risco_codigo = $7,
			veterinario = $8, box = $9,
			alta_prevista_data = $10, alta_prevista_hora = $11,
			queixa = $12, diagnostico = $13, prognostico = $14,
			alergias = $15, acessorios = $16, observacoes = $17,
			estado = $18, alta = $19, obito = $20, cancelamento = $21,
			prescricoes = $22, execucoes = $23, historico = $24,
			updated_at = $25,
			version = version + 1
		WHERE id = $1 AND version = $26
	`,
		rec.ID,
		doc.pet, doc.tutor,
		rec.Situacao, rec.SituacaoCodigo, rec.Risco, rec.RiscoCodigo,
		rec.Veterinario, rec.Box,
		rec.AltaPrevistaData, rec.AltaPrevistaHora,
		rec.Queixa, rec.Diagnostico, rec.Prognostico,
		doc.alergias, rec.Acessorios, rec.Observacoes,
		string(rec.State), doc.alta, doc.obito, doc.cancelamento,
		doc.prescricoes, doc.execucoes, doc.historico,
		rec.UpdatedAt,
		rec.Version,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// distinguir "no existe" de "perdió la carrera de versión"
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM internacao_registros WHERE id = $1)`, rec.ID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return admissions.ErrNotFound
		}
		return admissions.ErrConflict
	}
	return nil
}

func (r *AdmissionsRepo) GetByID(ctx context.Context, id string) (admissions.AdmissionRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return admissions.AdmissionRecord{}, admissions.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+admissionColumns+`
		FROM internacao_registros
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return admissions.AdmissionRecord{}, admissions.ErrNotFound
	}
	return rec, err
}

func (r *AdmissionsRepo) List(ctx context.Context) ([]admissions.AdmissionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+admissionColumns+`
		FROM internacao_registros
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]admissions.AdmissionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *AdmissionsRepo) NextCodigo(ctx context.Context) (int64, error) {
	var codigo int64
	err := r.db.QueryRowContext(ctx,
		`SELECT nextval('internacao_registros_codigo_seq')`,
	).Scan(&codigo)
	return codigo, err
}

type recordDoc struct {
	pet          []byte
	tutor        []byte
	alergias     []byte
	alta         []byte
	obito        []byte
	cancelamento []byte
	prescricoes  []byte
	execucoes    []byte
	historico    []byte
}

func marshalRecord(rec admissions.AdmissionRecord) (recordDoc, error) {
	var doc recordDoc
	var err error

	marshal := func(dst *[]byte, v any) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
	}

	marshal(&doc.pet, rec.Pet)
	marshal(&doc.tutor, rec.Tutor)
	marshal(&doc.alergias, rec.Alergias)
	marshal(&doc.prescricoes, rec.Prescricoes)
	marshal(&doc.execucoes, rec.Execucoes)
	marshal(&doc.historico, rec.Historico)

	if rec.Alta != nil {
		marshal(&doc.alta, rec.Alta)
	}
	if rec.Obito != nil {
		marshal(&doc.obito, rec.Obito)
	}
	if rec.Cancelamento != nil {
		marshal(&doc.cancelamento, rec.Cancelamento)
	}
	return doc, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (admissions.AdmissionRecord, error) {
	var rec admissions.AdmissionRecord
	var estado string
	var pet, tutor, alergias, prescricoes, execucoes, historico []byte
	var alta, obito, cancelamento []byte

	if err := row.Scan(
		&rec.ID, &rec.Codigo,
		&pet, &tutor,
		&rec.Situacao, &rec.SituacaoCodigo, &rec.Risco, &rec.RiscoCodigo, &rec.Veterinario, &rec.Box,
		&rec.AltaPrevistaData, &rec.AltaPrevistaHora,
		&rec.Queixa, &rec.Diagnostico, &rec.Prognostico, &alergias, &rec.Acessorios, &rec.Observacoes,
		&estado, &alta, &obito, &cancelamento,
		&prescricoes, &execucoes, &historico,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.Version,
	); err != nil {
		return admissions.AdmissionRecord{}, err
	}

	rec.State = admissions.State(estado)

	var err error
	unmarshal := func(src []byte, v any) {
		if err != nil || len(src) == 0 {
			return
		}
		err = json.Unmarshal(src, v)
	}

	unmarshal(pet, &rec.Pet)
	unmarshal(tutor, &rec.Tutor)
	unmarshal(alergias, &rec.Alergias)
	unmarshal(prescricoes, &rec.Prescricoes)
	unmarshal(execucoes, &rec.Execucoes)
	unmarshal(historico, &rec.Historico)

	if len(alta) > 0 {
		rec.Alta = &admissions.Alta{}
		unmarshal(alta, rec.Alta)
	}
	if len(obito) > 0 {
		rec.Obito = &admissions.Obito{}
		unmarshal(obito, rec.Obito)
	}
	if len(cancelamento) > 0 {
		rec.Cancelamento = &admissions.Cancelamento{}
		unmarshal(cancelamento, rec.Cancelamento)
	}
	return rec, err
}
