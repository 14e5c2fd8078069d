package statshttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/WebLink-Company/mi-comida/internal/platform/httpx"
	"github.com/WebLink-Company/mi-comida/internal/shared"
	"github.com/WebLink-Company/mi-comida/internal/stats"
	"github.com/WebLink-Company/mi-comida/internal/stats/export"
)

const requestTimeout = 5 * time.Second

// StatsService defines the dashboard data contract used by the handler.
type StatsService interface {
	ForIdentity(ctx context.Context, identity *shared.TenantIdentity) (stats.MetricsBundle, error)
	ForDateRange(ctx context.Context, identity *shared.TenantIdentity, start, end time.Time) (stats.MetricsBundle, error)
}

// BundleCounter tracks served dashboard bundles, usually Prometheus-backed.
type BundleCounter interface {
	CountBundle(role string)
}

// Handler coordinates HTTP requests for the dashboards.
type Handler struct {
	logger   *slog.Logger
	service  StatsService
	metrics  BundleCounter
	validate *validator.Validate
}

// NewHandler constructs the stats HTTP handler.
func NewHandler(logger *slog.Logger, service StatsService, metrics BundleCounter) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		metrics:  metrics,
		validate: validator.New(),
	}
}

func (h *Handler) countBundle(identity *shared.TenantIdentity) {
	if h.metrics == nil || identity == nil {
		return
	}
	h.metrics.CountBundle(string(identity.Role))
}

type rangeParams struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	bundle, err := h.service.ForIdentity(ctx, identity)
	if err != nil {
		h.respondStatsError(w, "load dashboard", err)
		return
	}
	h.countBundle(identity)
	httpx.JSON(w, http.StatusOK, bundle)
}

func (h *Handler) handleRange(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	start, end, err := h.parseRange(r)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	bundle, err := h.service.ForDateRange(ctx, identity, start, end)
	if err != nil {
		h.respondStatsError(w, "load range", err)
		return
	}
	h.countBundle(identity)
	httpx.JSON(w, http.StatusOK, bundle)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if identity.Role != shared.RoleAdmin && identity.Role != shared.RoleProvider {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	start, end, err := h.parseRange(r)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	bundle, err := h.service.ForDateRange(ctx, identity, start, end)
	if err != nil {
		h.respondStatsError(w, "load csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="company-rollup.csv"`)
	if err := export.WriteRollupCSV(w, bundle); err != nil {
		h.logger.Error("write csv", slog.Any("error", err))
	}
}

func (h *Handler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	params := rangeParams{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(params); err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := time.ParseInLocation(stats.DateLayout, params.From, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(stats.DateLayout, params.To, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (h *Handler) respondStatsError(w http.ResponseWriter, op string, err error) {
	var fetchErr *stats.FetchError
	switch {
	case errors.Is(err, shared.ErrUnassignedCompany):
		httpx.Problem(w, http.StatusConflict, "No Company Assigned", shared.ErrUnassignedCompany.Error())
	case errors.As(err, &fetchErr):
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
