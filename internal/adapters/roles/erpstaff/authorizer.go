package erpstaff

import (
	"context"
	"os"
	"strings"
)

// Authorizer implementa roles.Authorizer contra el cadastro de equipo
// del ERP, con un cache simple delegado al upstream.
type Authorizer struct {
	client   *Client
	allowAll bool
}

// NewAuthorizer crea el authorizer.
// Si STAFF_ALLOW_ALL=true (env), todo usuario pasa (modo dev / fallback).
func NewAuthorizer(client *Client) *Authorizer {
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("STAFF_ALLOW_ALL")), "true")
	return &Authorizer{
		client:   client,
		allowAll: allowAll,
	}
}

func (a *Authorizer) HasAnyRole(ctx context.Context, userID string, allowed ...string) (bool, error) {
	if a != nil && a.allowAll {
		return true, nil
	}
	if a == nil || a.client == nil || !a.client.IsConfigured() {
		// preferimos fallar explícito en vez de permitir sin control
		return false, ErrStaffNotConfigured
	}

	userRoles, err := a.client.GetRoles(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, have := range userRoles {
		for _, want := range allowed {
			if strings.EqualFold(strings.TrimSpace(have), want) {
				return true, nil
			}
		}
	}
	return false, nil
}
