package middleware

import (
	"net/http"
	"strings"

	"pet-inpatient-care/internal/ports/roles"
)

// RequireRoles corta con 403 si el usuario autenticado no tiene ninguno
// de los roles pedidos. Con authorizer nil (modo dev) deja pasar y el
// handler sigue decidiendo el 401 por claims ausentes.
func RequireRoles(authorizer roles.Authorizer, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authorizer == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			has, err := authorizer.HasAnyRole(r.Context(), claims.UserID, allowed...)
			if err != nil || !has {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
