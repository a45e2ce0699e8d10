package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-inpatient-care/internal/domain/boxes"
)

type boxesRepo struct {
	mu   sync.RWMutex
	byID map[string]boxes.Box
}

func NewBoxesRepo() boxes.Repository {
	return &boxesRepo{
		byID: make(map[string]boxes.Box),
	}
}

func (r *boxesRepo) Create(ctx context.Context, box boxes.Box) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if box.ID == "" {
		return errors.New("box id required")
	}
	if _, exists := r.byID[box.ID]; exists {
		return errors.New("box already exists")
	}

	r.byID[box.ID] = box
	return nil
}

func (r *boxesRepo) Update(ctx context.Context, box boxes.Box) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[box.ID]; !ok {
		return boxes.ErrNotFound
	}
	r.byID[box.ID] = box
	return nil
}

func (r *boxesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return boxes.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *boxesRepo) GetByID(ctx context.Context, id string) (boxes.Box, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	box, ok := r.byID[id]
	if !ok {
		return boxes.Box{}, boxes.ErrNotFound
	}
	return box, nil
}

func (r *boxesRepo) GetByNome(ctx context.Context, nome string) (boxes.Box, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, box := range r.byID {
		if strings.EqualFold(box.Nome, nome) {
			return box, nil
		}
	}
	return boxes.Box{}, boxes.ErrNotFound
}

func (r *boxesRepo) List(ctx context.Context) ([]boxes.Box, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boxes.Box, 0, len(r.byID))
	for _, box := range r.byID {
		out = append(out, box)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
