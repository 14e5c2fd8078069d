// Package auth resolves bearer service tokens into tenant identities. The
// platform's user management and session issuing live upstream; this layer
// only verifies tokens the upstream system provisioned.
package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// ServiceToken is a provisioned API credential bound to one user. The
// presented secret is verified against Hash; the role and tenant references
// resolved here are final, downstream code never re-infers them.
type ServiceToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Role       shared.Role
	ProviderID *uuid.UUID
	CompanyID  *uuid.UUID
	Hash       []byte
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

// Identity converts the token record into the request identity.
func (t ServiceToken) Identity() *shared.TenantIdentity {
	return &shared.TenantIdentity{
		UserID:     t.UserID,
		Role:       t.Role,
		ProviderID: t.ProviderID,
		CompanyID:  t.CompanyID,
	}
}
