package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/pricing"
	"github.com/WebLink-Company/mi-comida/internal/shared"
)

var (
	// ErrForbidden indicates the identity may not act on the order.
	ErrForbidden = errors.New("orders: forbidden")
	// ErrOptionUnavailable indicates the lunch option cannot be ordered.
	ErrOptionUnavailable = errors.New("orders: lunch option not available")
	// ErrInvalidTransition indicates a disallowed status change.
	ErrInvalidTransition = errors.New("orders: invalid status transition")
)

// Catalog is the master data read surface the ordering flow depends on.
type Catalog interface {
	GetLunchOption(ctx context.Context, id uuid.UUID) (masterdata.LunchOption, error)
	GetCompany(ctx context.Context, id uuid.UUID) (masterdata.Company, error)
}

// CacheInvalidator drops derived read models after an order mutation. The
// stats service satisfies it.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// Quote pairs a created or previewed order with its subsidised price. The
// payable amount here and the revenue the dashboard later attributes to the
// order come from the same pricing.Price call.
type Quote struct {
	Order   *Order        `json:"order,omitempty"`
	Pricing pricing.Quote `json:"pricing"`
}

// Service implements the ordering flow.
type Service struct {
	repo        Repository
	catalog     Catalog
	invalidator CacheInvalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs the order service.
func NewService(repo Repository, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// WithInvalidator registers the cache invalidator notified after every
// successful order mutation.
func (s *Service) WithInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}

// CreateInput carries the fields an employee submits when ordering.
type CreateInput struct {
	LunchOptionID uuid.UUID
	Date          time.Time
}

// Create places a pending order for the identity's company and returns it
// together with the subsidised price shown to the employee.
func (s *Service) Create(ctx context.Context, identity *shared.TenantIdentity, input CreateInput) (Quote, error) {
	if identity == nil || identity.CompanyID == nil {
		return Quote{}, ErrForbidden
	}

	option, err := s.catalog.GetLunchOption(ctx, input.LunchOptionID)
	if err != nil {
		return Quote{}, fmt.Errorf("orders: load lunch option: %w", err)
	}
	if !option.Available {
		return Quote{}, ErrOptionUnavailable
	}
	company, err := s.catalog.GetCompany(ctx, *identity.CompanyID)
	if err != nil {
		return Quote{}, fmt.Errorf("orders: load company: %w", err)
	}

	date := truncateToDate(input.Date)
	if date.IsZero() {
		date = truncateToDate(s.now())
	}

	created, err := s.repo.Create(ctx, Order{
		CompanyID:     company.ID,
		UserID:        identity.UserID,
		LunchOptionID: option.ID,
		Date:          date,
		Status:        StatusPending,
	})
	if err != nil {
		return Quote{}, err
	}

	s.logger.Info("order created",
		slog.String("order_id", created.ID.String()),
		slog.String("company_id", company.ID.String()),
		slog.String("date", date.Format("2006-01-02")))
	s.invalidate(ctx)

	return Quote{Order: &created, Pricing: pricing.Price(option.Price, company.Subsidy)}, nil
}

// PricePreview computes the subsidised price for a company and lunch option
// without creating an order.
func (s *Service) PricePreview(ctx context.Context, companyID, lunchOptionID uuid.UUID) (Quote, error) {
	option, err := s.catalog.GetLunchOption(ctx, lunchOptionID)
	if err != nil {
		return Quote{}, fmt.Errorf("orders: load lunch option: %w", err)
	}
	company, err := s.catalog.GetCompany(ctx, companyID)
	if err != nil {
		return Quote{}, fmt.Errorf("orders: load company: %w", err)
	}
	return Quote{Pricing: pricing.Price(option.Price, company.Subsidy)}, nil
}

// Decide lets a supervisor approve or reject a pending order of their company.
func (s *Service) Decide(ctx context.Context, identity *shared.TenantIdentity, orderID uuid.UUID, approve bool) error {
	if identity == nil || identity.Role != shared.RoleSupervisor || identity.CompanyID == nil {
		return ErrForbidden
	}
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.CompanyID != *identity.CompanyID {
		return ErrForbidden
	}
	target := StatusApproved
	if !approve {
		target = StatusRejected
	}
	if err := s.transition(ctx, order, target); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Dispatch moves an order through preparation and delivery on behalf of the
// provider serving the order's company.
func (s *Service) Dispatch(ctx context.Context, identity *shared.TenantIdentity, orderID uuid.UUID, target Status) error {
	if identity == nil || identity.Role != shared.RoleProvider || identity.ProviderID == nil {
		return ErrForbidden
	}
	if target != StatusPrepared && target != StatusDelivered {
		return ErrInvalidTransition
	}
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	company, err := s.catalog.GetCompany(ctx, order.CompanyID)
	if err != nil {
		return fmt.Errorf("orders: load company: %w", err)
	}
	if company.ProviderID != *identity.ProviderID {
		return ErrForbidden
	}
	if err := s.transition(ctx, order, target); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Cancel deletes the caller's own order while it is still pending.
func (s *Service) Cancel(ctx context.Context, identity *shared.TenantIdentity, orderID uuid.UUID) error {
	if identity == nil {
		return ErrForbidden
	}
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != identity.UserID {
		return ErrForbidden
	}
	if err := s.repo.DeletePending(ctx, orderID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListMine returns the caller's own orders, newest first.
func (s *Service) ListMine(ctx context.Context, identity *shared.TenantIdentity) ([]Order, error) {
	if identity == nil {
		return nil, ErrForbidden
	}
	userID := identity.UserID
	return s.repo.List(ctx, ListFilters{UserID: &userID})
}

// ListForCompany returns a company's orders for a supervisor.
func (s *Service) ListForCompany(ctx context.Context, identity *shared.TenantIdentity, filters ListFilters) ([]Order, error) {
	if identity == nil || identity.Role != shared.RoleSupervisor {
		return nil, ErrForbidden
	}
	if identity.CompanyID == nil {
		return nil, shared.ErrUnassignedCompany
	}
	filters.CompanyID = identity.CompanyID
	return s.repo.List(ctx, filters)
}

func (s *Service) transition(ctx context.Context, order *Order, target Status) error {
	if !order.Status.CanTransition(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}
	return s.repo.UpdateStatus(ctx, order.ID, order.Status, target)
}

func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
