package masterdata

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Service exposes master data operations with role-aware scoping applied.
type Service interface {
	ListProviders(ctx context.Context) ([]Provider, error)
	ListCompanies(ctx context.Context, identity *shared.TenantIdentity) ([]Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	CreateCompany(ctx context.Context, company Company) (Company, error)
	UpdateCompanySubsidy(ctx context.Context, id uuid.UUID, company Company) error
	ListLunchOptions(ctx context.Context, providerID *uuid.UUID, availableOnly bool) ([]LunchOption, error)
	GetLunchOption(ctx context.Context, id uuid.UUID) (LunchOption, error)
	CreateLunchOption(ctx context.Context, option LunchOption) (LunchOption, error)
}

type service struct {
	repo Repository
}

// NewService creates a new master data service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListProviders(ctx context.Context) ([]Provider, error) {
	return s.repo.ListProviders(ctx)
}

// ListCompanies narrows the listing to the caller's tenant: admins see all
// companies, providers their own, supervisors and employees only the one
// they belong to.
func (s *service) ListCompanies(ctx context.Context, identity *shared.TenantIdentity) ([]Company, error) {
	if identity == nil {
		return nil, errors.New("masterdata: identity required")
	}
	switch identity.Role {
	case shared.RoleAdmin:
		return s.repo.ListCompanies(ctx, nil)
	case shared.RoleProvider:
		if identity.ProviderID == nil {
			return nil, errors.New("masterdata: provider identity missing provider id")
		}
		return s.repo.ListCompanies(ctx, identity.ProviderID)
	case shared.RoleSupervisor, shared.RoleEmployee:
		if identity.CompanyID == nil {
			return nil, shared.ErrUnassignedCompany
		}
		company, err := s.repo.GetCompany(ctx, *identity.CompanyID)
		if err != nil {
			return nil, err
		}
		return []Company{company}, nil
	}
	return nil, nil
}

func (s *service) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	if id == uuid.Nil {
		return Company{}, errors.New("masterdata: invalid company id")
	}
	return s.repo.GetCompany(ctx, id)
}

func (s *service) CreateCompany(ctx context.Context, company Company) (Company, error) {
	if strings.TrimSpace(company.Name) == "" {
		return Company{}, errors.New("masterdata: company name required")
	}
	if company.ProviderID == uuid.Nil {
		return Company{}, errors.New("masterdata: company provider required")
	}
	return s.repo.CreateCompany(ctx, company)
}

func (s *service) UpdateCompanySubsidy(ctx context.Context, id uuid.UUID, company Company) error {
	if id == uuid.Nil {
		return errors.New("masterdata: invalid company id")
	}
	return s.repo.UpdateCompanySubsidy(ctx, id, company)
}

func (s *service) ListLunchOptions(ctx context.Context, providerID *uuid.UUID, availableOnly bool) ([]LunchOption, error) {
	return s.repo.ListLunchOptions(ctx, providerID, availableOnly)
}

func (s *service) GetLunchOption(ctx context.Context, id uuid.UUID) (LunchOption, error) {
	if id == uuid.Nil {
		return LunchOption{}, errors.New("masterdata: invalid lunch option id")
	}
	return s.repo.GetLunchOption(ctx, id)
}

func (s *service) CreateLunchOption(ctx context.Context, option LunchOption) (LunchOption, error) {
	if strings.TrimSpace(option.Name) == "" {
		return LunchOption{}, errors.New("masterdata: lunch option name required")
	}
	if option.ProviderID == uuid.Nil {
		return LunchOption{}, errors.New("masterdata: lunch option provider required")
	}
	if option.Price.IsNegative() {
		return LunchOption{}, errors.New("masterdata: lunch option price must not be negative")
	}
	return s.repo.CreateLunchOption(ctx, option)
}
