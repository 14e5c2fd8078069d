package statshttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebLink-Company/mi-comida/internal/shared"
	"github.com/WebLink-Company/mi-comida/internal/stats"
)

type fakeStatsService struct {
	bundle stats.MetricsBundle
	err    error

	lastStart, lastEnd time.Time
}

func (f *fakeStatsService) ForIdentity(context.Context, *shared.TenantIdentity) (stats.MetricsBundle, error) {
	return f.bundle, f.err
}

func (f *fakeStatsService) ForDateRange(_ context.Context, _ *shared.TenantIdentity, start, end time.Time) (stats.MetricsBundle, error) {
	f.lastStart, f.lastEnd = start, end
	return f.bundle, f.err
}

type fakeCounter struct {
	roles []string
}

func (f *fakeCounter) CountBundle(role string) { f.roles = append(f.roles, role) }

func newTestRouter(svc StatsService, counter BundleCounter) chi.Router {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, counter)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func doRequest(t *testing.T, r chi.Router, target string, identity *shared.TenantIdentity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if identity != nil {
		req = req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func adminIdentity() *shared.TenantIdentity {
	return &shared.TenantIdentity{UserID: uuid.New(), Role: shared.RoleAdmin}
}

func employeeIdentity() *shared.TenantIdentity {
	return &shared.TenantIdentity{UserID: uuid.New(), Role: shared.RoleEmployee}
}

func TestDashboardReturnsBundle(t *testing.T) {
	bundle := stats.ZeroBundle()
	bundle.OrdersToday = 5
	bundle.PendingOrders = 2
	counter := &fakeCounter{}
	router := newTestRouter(&fakeStatsService{bundle: bundle}, counter)

	rec := doRequest(t, router, "/dashboard/stats", adminIdentity())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.EqualValues(t, 5, payload["ordersToday"])
	assert.EqualValues(t, 2, payload["pendingOrders"])
	assert.Equal(t, map[string]interface{}{"name": "no data", "count": float64(0)}, payload["topOrderedMeal"])

	assert.Equal(t, []string{"admin"}, counter.roles)
}

func TestDashboardRequiresIdentity(t *testing.T) {
	router := newTestRouter(&fakeStatsService{}, nil)
	rec := doRequest(t, router, "/dashboard/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardUnassignedSupervisorConflict(t *testing.T) {
	router := newTestRouter(&fakeStatsService{err: shared.ErrUnassignedCompany}, nil)
	rec := doRequest(t, router, "/dashboard/stats", &shared.TenantIdentity{
		UserID: uuid.New(),
		Role:   shared.RoleSupervisor,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no company currently assigned")
}

func TestDashboardUpstreamFailure(t *testing.T) {
	svc := &fakeStatsService{err: &stats.FetchError{Op: "fetch orders", Err: context.DeadlineExceeded}}
	router := newTestRouter(svc, nil)

	rec := doRequest(t, router, "/dashboard/stats", adminIdentity())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRangeParsesDates(t *testing.T) {
	svc := &fakeStatsService{bundle: stats.ZeroBundle()}
	router := newTestRouter(svc, nil)

	rec := doRequest(t, router, "/dashboard/stats/range?from=2026-03-01&to=2026-03-15", adminIdentity())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), svc.lastStart)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), svc.lastEnd)
}

func TestRangeRejectsBadDates(t *testing.T) {
	router := newTestRouter(&fakeStatsService{}, nil)

	for _, target := range []string{
		"/dashboard/stats/range",
		"/dashboard/stats/range?from=2026-03-01",
		"/dashboard/stats/range?from=03/01/2026&to=03/15/2026",
	} {
		rec := doRequest(t, router, target, adminIdentity())
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestCSVExportRestrictedToAdminAndProvider(t *testing.T) {
	bundle := stats.ZeroBundle()
	bundle.Companies = []stats.CompanyRollup{{CompanyID: uuid.New(), Name: "Acme", OrderCount: 3}}
	router := newTestRouter(&fakeStatsService{bundle: bundle}, nil)

	rec := doRequest(t, router, "/dashboard/stats/export.csv?from=2026-03-01&to=2026-03-15", adminIdentity())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "company-rollup.csv")
	assert.Contains(t, rec.Body.String(), "Acme")

	rec = doRequest(t, router, "/dashboard/stats/export.csv?from=2026-03-01&to=2026-03-15", employeeIdentity())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRangeRateLimited(t *testing.T) {
	router := newTestRouter(&fakeStatsService{bundle: stats.ZeroBundle()}, nil)
	identity := adminIdentity()

	var tooMany bool
	for i := 0; i < 25; i++ {
		rec := doRequest(t, router, "/dashboard/stats/range?from=2026-03-01&to=2026-03-15", identity)
		if rec.Code == http.StatusTooManyRequests {
			tooMany = true
			assert.True(t, strings.Contains(rec.Body.String(), http.StatusText(http.StatusTooManyRequests)))
			break
		}
	}
	assert.True(t, tooMany, "limiter should trip within 25 requests at 20/min")
}
