package admissions

import "context"

// Repository persiste registros de internación como documentos
// completos. Update compara la versión guardada con rec.Version y
// devuelve ErrConflict si otra escritura llegó primero; en éxito
// persiste rec con Version+1.
type Repository interface {
	Create(ctx context.Context, rec AdmissionRecord) error
	Update(ctx context.Context, rec AdmissionRecord) error
	GetByID(ctx context.Context, id string) (AdmissionRecord, error)
	List(ctx context.Context) ([]AdmissionRecord, error)

	// NextCodigo entrega el siguiente código secuencial. Nunca repite.
	NextCodigo(ctx context.Context) (int64, error)
}
