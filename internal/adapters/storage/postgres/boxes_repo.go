package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-inpatient-care/internal/domain/boxes"
)

type BoxesRepo struct {
	db *sql.DB
}

func NewBoxesRepo(db *sql.DB) *BoxesRepo {
	return &BoxesRepo{db: db}
}

func (r *BoxesRepo) Create(ctx context.Context, box boxes.Box) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO internacao_boxes (
			id, nome, ocupante, status,
			especialidade, higienizacao, observacao, empresa_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		box.ID, box.Nome, box.Ocupante, box.Status,
		box.Especialidade, box.Higienizacao, box.Observacao, box.EmpresaID,
		box.CreatedAt, box.UpdatedAt,
	)
	return err
}

func (r *BoxesRepo) Update(ctx context.Context, box boxes.Box) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE internacao_boxes SET
			nome = $2, ocupante = $3, status = $4,
			especialidade = $5, higienizacao = $6, observacao = $7,
			empresa_id = $8, updated_at = $9
		WHERE id = $1
	`,
		box.ID, box.Nome, box.Ocupante, box.Status,
		box.Especialidade, box.Higienizacao, box.Observacao,
		box.EmpresaID, box.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return boxes.ErrNotFound
	}
	return nil
}

func (r *BoxesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM internacao_boxes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return boxes.ErrNotFound
	}
	return nil
}

func (r *BoxesRepo) GetByID(ctx context.Context, id string) (boxes.Box, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nome, ocupante, status, especialidade, higienizacao, observacao, empresa_id, created_at, updated_at
		FROM internacao_boxes
		WHERE id = $1
	`, strings.TrimSpace(id))
	return scanBox(row)
}

func (r *BoxesRepo) GetByNome(ctx context.Context, nome string) (boxes.Box, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nome, ocupante, status, especialidade, higienizacao, observacao, empresa_id, created_at, updated_at
		FROM internacao_boxes
		WHERE lower(nome) = lower($1)
	`, strings.TrimSpace(nome))
	return scanBox(row)
}

func (r *BoxesRepo) List(ctx context.Context) ([]boxes.Box, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nome, ocupante, status, especialidade, higienizacao, observacao, empresa_id, created_at, updated_at
		FROM internacao_boxes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]boxes.Box, 0)
	for rows.Next() {
		var box boxes.Box
		if err := rows.Scan(
			&box.ID, &box.Nome, &box.Ocupante, &box.Status,
			&box.Especialidade, &box.Higienizacao, &box.Observacao,
			&box.EmpresaID, &box.CreatedAt, &box.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, box)
	}
	return out, rows.Err()
}

func scanBox(row *sql.Row) (boxes.Box, error) {
	var box boxes.Box
	err := row.Scan(
		&box.ID, &box.Nome, &box.Ocupante, &box.Status,
		&box.Especialidade, &box.Higienizacao, &box.Observacao,
		&box.EmpresaID, &box.CreatedAt, &box.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return boxes.Box{}, boxes.ErrNotFound
	}
	return box, err
}
