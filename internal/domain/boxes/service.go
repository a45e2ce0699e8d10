package boxes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	Nome          string `json:"box"`
	Ocupante      string `json:"ocupante"`
	Status        string `json:"status"`
	Especialidade string `json:"especialidade"`
	Higienizacao  string `json:"higienizacao"`
	Observacao    string `json:"observacao"`
	EmpresaID     string `json:"empresaId"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Box, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return Box{}, ErrMissingNome
	}

	ocupante := strings.TrimSpace(in.Ocupante)
	if ocupante == "" {
		ocupante = OcupanteLivre
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		if ocupante == OcupanteLivre {
			status = StatusDisponivel
		} else {
			status = StatusEmUso
		}
	}
	higienizacao := strings.TrimSpace(in.Higienizacao)
	if higienizacao == "" {
		higienizacao = HigienizacaoPadrao
	}

	now := s.now()
	box := Box{
		ID:            s.newID(),
		Nome:          nome,
		Ocupante:      ocupante,
		Status:        status,
		Especialidade: strings.TrimSpace(in.Especialidade),
		Higienizacao:  higienizacao,
		Observacao:    strings.TrimSpace(in.Observacao),
		EmpresaID:     strings.TrimSpace(in.EmpresaID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, box); err != nil {
		return Box{}, err
	}
	return box, nil
}

func (s *Service) List(ctx context.Context) ([]Box, error) {
	return s.repo.List(ctx)
}

// Assign ocupa el box con el paciente. Si el box todavía no existe en
// el cadastro se crea sobre la marcha, igual que hacía la recepción al
// tipear un box nuevo en la ficha.
func (s *Service) Assign(ctx context.Context, nome, ocupante string) error {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return ErrMissingNome
	}
	ocupante = strings.TrimSpace(ocupante)
	if ocupante == "" {
		ocupante = "Paciente internado"
	}

	box, err := s.repo.GetByNome(ctx, nome)
	if errors.Is(err, ErrNotFound) {
		_, err = s.Create(ctx, CreateInput{Nome: nome, Ocupante: ocupante, Status: StatusEmUso})
		return err
	}
	if err != nil {
		return err
	}

	box.Ocupante = ocupante
	box.Status = StatusEmUso
	box.UpdatedAt = s.now()
	return s.repo.Update(ctx, box)
}

// Release devuelve el box al estado disponible. Idempotente: liberar
// un box ya libre o inexistente no es error.
func (s *Service) Release(ctx context.Context, nome string) error {
	box, err := s.repo.GetByNome(ctx, strings.TrimSpace(nome))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	box.Ocupante = OcupanteLivre
	box.Status = StatusDisponivel
	box.UpdatedAt = s.now()
	return s.repo.Update(ctx, box)
}

// Delete remueve un box del cadastro. Bloqueado si hay un paciente
// adentro.
func (s *Service) Delete(ctx context.Context, id string) error {
	box, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !box.Livre() || box.Status == StatusEmUso {
		return ErrOccupied
	}
	return s.repo.Delete(ctx, box.ID)
}

// Available lista los boxes libres, para el selector de destino.
func (s *Service) Available(ctx context.Context) ([]Box, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	free := make([]Box, 0, len(all))
	for _, box := range all {
		if box.Livre() && box.Status != StatusEmUso {
			free = append(free, box)
		}
	}
	return free, nil
}
