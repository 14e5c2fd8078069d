package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/observability"
	"github.com/WebLink-Company/mi-comida/internal/orders"
	"github.com/WebLink-Company/mi-comida/internal/platform/httpx"
	"github.com/WebLink-Company/mi-comida/internal/stats/statshttp"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthMiddleware    func(http.Handler) http.Handler
	MasterDataHandler *masterdata.Handler
	OrdersHandler     *orders.Handler
	StatsHandler      *statshttp.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthMiddleware,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if params.MasterDataHandler != nil {
			params.MasterDataHandler.MountRoutes(api)
		}
		if params.OrdersHandler != nil {
			params.OrdersHandler.MountRoutes(api)
		}
		if params.StatsHandler != nil {
			params.StatsHandler.MountRoutes(api)
		}
	})

	return r
}
