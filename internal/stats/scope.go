package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Scope is the set of company identifiers a tenant identity may aggregate
// over. The zero value is the empty scope, which every metric resolves to
// zero for; the all-companies marker avoids enumerating the company table
// for platform admins.
type Scope struct {
	all        bool
	companyIDs []uuid.UUID
}

// AllCompanies returns the unbounded admin scope.
func AllCompanies() Scope {
	return Scope{all: true}
}

// CompanySet returns a scope over an explicit set of company ids.
func CompanySet(ids ...uuid.UUID) Scope {
	return Scope{companyIDs: ids}
}

// EmptyScope returns the zero-metrics scope.
func EmptyScope() Scope {
	return Scope{}
}

// All reports whether the scope covers every company.
func (s Scope) All() bool { return s.all }

// Empty reports whether the scope covers no company at all. This is a valid
// zero-metrics condition, never a fetch failure.
func (s Scope) Empty() bool { return !s.all && len(s.companyIDs) == 0 }

// CompanyIDs returns the enumerated ids; empty for the all-companies marker.
func (s Scope) CompanyIDs() []uuid.UUID { return s.companyIDs }

// CompanyLister enumerates a provider's companies for scope resolution.
type CompanyLister interface {
	CompanyIDsByProvider(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error)
}

// Resolver turns a tenant identity into an aggregation scope.
type Resolver struct {
	directory CompanyLister
}

// NewResolver constructs a Resolver backed by the company directory.
func NewResolver(directory CompanyLister) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve maps the identity's role to its authorized company scope. A
// provider with zero companies resolves to the empty scope; a supervisor
// without an assigned company is a configuration error, surfaced as
// shared.ErrUnassignedCompany.
func (r *Resolver) Resolve(ctx context.Context, identity *shared.TenantIdentity) (Scope, error) {
	if identity == nil {
		return EmptyScope(), nil
	}
	switch identity.Role {
	case shared.RoleAdmin:
		return AllCompanies(), nil
	case shared.RoleProvider:
		if identity.ProviderID == nil {
			return EmptyScope(), nil
		}
		ids, err := r.directory.CompanyIDsByProvider(ctx, *identity.ProviderID)
		if err != nil {
			return EmptyScope(), &FetchError{Op: "list provider companies", Err: err}
		}
		if len(ids) == 0 {
			return EmptyScope(), nil
		}
		return CompanySet(ids...), nil
	case shared.RoleSupervisor:
		if identity.CompanyID == nil {
			return EmptyScope(), fmt.Errorf("stats: resolve supervisor scope: %w", shared.ErrUnassignedCompany)
		}
		return CompanySet(*identity.CompanyID), nil
	}
	return EmptyScope(), nil
}
