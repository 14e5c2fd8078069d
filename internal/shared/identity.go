package shared

import "github.com/google/uuid"

// Role tags a tenant identity. It is resolved once at the auth boundary and
// never re-inferred from the presence or absence of other fields.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleProvider   Role = "provider"
	RoleSupervisor Role = "supervisor"
	RoleEmployee   Role = "employee"
)

// Valid reports whether the role tag is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

// TenantIdentity describes the caller as resolved by the auth layer.
// ProviderID is set when Role is RoleProvider; CompanyID when Role is
// RoleSupervisor or RoleEmployee.
type TenantIdentity struct {
	UserID     uuid.UUID
	Role       Role
	ProviderID *uuid.UUID
	CompanyID  *uuid.UUID
}
