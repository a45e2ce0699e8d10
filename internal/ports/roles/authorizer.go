package roles

import "context"

// Roles del ERP con acceso al módulo de internación.
const (
	Funcionario = "funcionario"
	Admin       = "admin"
	AdminMaster = "admin_master"
)

// Authorizer decide si un usuario tiene alguno de los roles pedidos.
type Authorizer interface {
	HasAnyRole(ctx context.Context, userID string, allowed ...string) (bool, error)
}
