package domain

import "github.com/google/uuid"

// TenantScope restricts a read to one tenant, or to every tenant when All is set.
type TenantScope struct {
	TenantID uuid.UUID
	All      bool
}

// SingleTenant returns a scope bound to id.
func SingleTenant(id uuid.UUID) TenantScope {
	return TenantScope{TenantID: id}
}

// AllTenants returns the global scope.
func AllTenants() TenantScope {
	return TenantScope{All: true}
}

// Filter returns nil for the global scope, otherwise the tenant id.
func (s TenantScope) Filter() *uuid.UUID {
	if s.All {
		return nil
	}
	id := s.TenantID
	return &id
}
