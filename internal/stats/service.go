package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Service is the stats facade: it resolves scope, builds windows, fans out
// the independent fetches and reduces them to a MetricsBundle. Every failure
// is a typed error; the bundle is produced whole or not at all.
type Service struct {
	repo     Repository
	resolver *Resolver
	cache    *Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the stats facade.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: NewResolver(repo),
		cache:    cache,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// ForIdentity serves the dashboard bundle for whatever role the identity
// carries. Unknown roles and employees resolve to the zero bundle.
func (s *Service) ForIdentity(ctx context.Context, identity *shared.TenantIdentity) (MetricsBundle, error) {
	if identity == nil {
		return ZeroBundle(), nil
	}
	switch identity.Role {
	case shared.RoleAdmin:
		return s.ForAdmin(ctx)
	case shared.RoleProvider:
		if identity.ProviderID == nil {
			return ZeroBundle(), nil
		}
		return s.ForProvider(ctx, *identity.ProviderID)
	case shared.RoleSupervisor:
		if identity.CompanyID == nil {
			return ZeroBundle(), shared.ErrUnassignedCompany
		}
		return s.ForSupervisor(ctx, *identity.CompanyID)
	}
	return ZeroBundle(), nil
}

// ForAdmin aggregates over every company on the platform.
func (s *Service) ForAdmin(ctx context.Context) (MetricsBundle, error) {
	return s.cached(ctx, keyDashboard("admin", uuid.Nil, Day(s.now())), func(ctx context.Context) (MetricsBundle, error) {
		return s.dashboard(ctx, AllCompanies(), true)
	})
}

// ForProvider aggregates over the provider's companies, rollups included.
func (s *Service) ForProvider(ctx context.Context, providerID uuid.UUID) (MetricsBundle, error) {
	identity := &shared.TenantIdentity{Role: shared.RoleProvider, ProviderID: &providerID}
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return ZeroBundle(), err
	}
	return s.cached(ctx, keyDashboard("provider", providerID, Day(s.now())), func(ctx context.Context) (MetricsBundle, error) {
		return s.dashboard(ctx, scope, true)
	})
}

// ForSupervisor aggregates over the supervisor's single company.
func (s *Service) ForSupervisor(ctx context.Context, companyID uuid.UUID) (MetricsBundle, error) {
	if companyID == uuid.Nil {
		return ZeroBundle(), shared.ErrUnassignedCompany
	}
	return s.cached(ctx, keyDashboard("supervisor", companyID, Day(s.now())), func(ctx context.Context) (MetricsBundle, error) {
		return s.dashboard(ctx, CompanySet(companyID), false)
	})
}

// ForDateRange aggregates an arbitrary inclusive range for the identity's
// scope. Inverted ranges collapse per the window builder's normalization.
func (s *Service) ForDateRange(ctx context.Context, identity *shared.TenantIdentity, start, end time.Time) (MetricsBundle, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return ZeroBundle(), err
	}
	window := BuildWindow(KindCustom, s.now(), start, end)
	// Empty scopes never reach the cache: their zero bundle must not shadow
	// another identity's entry for the same window.
	if scope.Empty() {
		return ZeroBundle(), nil
	}

	// The key carries the caller's own role and tenant so bundles are never
	// shared across identities that happen to request the same window.
	role := "anonymous"
	tenant := uuid.Nil
	if identity != nil {
		role = string(identity.Role)
		switch {
		case identity.Role == shared.RoleProvider && identity.ProviderID != nil:
			tenant = *identity.ProviderID
		case identity.Role == shared.RoleSupervisor && identity.CompanyID != nil:
			tenant = *identity.CompanyID
		}
	}
	includeRollup := identity == nil || identity.Role != shared.RoleSupervisor

	return s.cached(ctx, keyRange(role, tenant, window), func(ctx context.Context) (MetricsBundle, error) {
		return s.aggregateWindow(ctx, scope, window, includeRollup)
	})
}

// dashboard computes the default bundle: today's figures plus month-to-date
// monthly ones.
func (s *Service) dashboard(ctx context.Context, scope Scope, includeRollup bool) (MetricsBundle, error) {
	window := BuildWindow(KindMonthToDate, s.now(), time.Time{}, time.Time{})
	return s.aggregateWindow(ctx, scope, window, includeRollup)
}

// aggregateWindow runs the fan-out/fan-in: the window fetch, the
// date-unrestricted pending count, and the scope's company data are
// independent queries issued concurrently; aggregation waits for all three.
func (s *Service) aggregateWindow(ctx context.Context, scope Scope, window Window, includeRollup bool) (MetricsBundle, error) {
	if scope.Empty() {
		return ZeroBundle(), nil
	}

	var (
		rows      []OrderRow
		pending   int
		companies []CompanyInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.FetchOrders(gctx, scope, window)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.repo.CountPending(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		companies, err = s.repo.CompaniesInScope(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("stats fetch failed", slog.Any("error", err))
		return ZeroBundle(), err
	}

	return Aggregate(AggregateInput{
		Rows:          rows,
		PendingTotal:  pending,
		Window:        window,
		Today:         Day(s.now()),
		Companies:     companies,
		IncludeRollup: includeRollup,
	}), nil
}

func (s *Service) cached(ctx context.Context, keyParts []string, loader func(context.Context) (MetricsBundle, error)) (MetricsBundle, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		// A broken cache must not take the dashboard down.
		s.logger.Warn("stats cache key", slog.Any("error", err))
		return loader(ctx)
	}
	var bundle MetricsBundle
	if err := s.cache.FetchJSON(ctx, key, &bundle, func(ctx context.Context) (interface{}, error) {
		return loader(ctx)
	}); err != nil {
		return ZeroBundle(), err
	}
	return bundle, nil
}

// InvalidateCache bumps the dashboard cache version after order mutations.
func (s *Service) InvalidateCache(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("stats cache bump", slog.Any("error", err))
	}
}
