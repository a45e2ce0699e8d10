package boxes

import "context"

// Repository persiste boxes. GetByNome resuelve por el nombre visible
// (la ficha de internación referencia boxes por nombre, no por id).
type Repository interface {
	Create(ctx context.Context, box Box) error
	Update(ctx context.Context, box Box) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Box, error)
	GetByNome(ctx context.Context, nome string) (Box, error)
	List(ctx context.Context) ([]Box, error)
}
