package orders

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/platform/httpx"
	"github.com/WebLink-Company/mi-comida/internal/shared"
)

const dateLayout = "2006-01-02"

// Handler serves the ordering flow HTTP surface.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the orders handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type createOrderRequest struct {
	LunchOptionID uuid.UUID `json:"lunch_option_id" validate:"required"`
	Date          string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// MountRoutes registers ordering endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orders", h.handleCreate)
	r.Get("/orders/mine", h.handleListMine)
	r.Get("/orders", h.handleListCompany)
	r.Get("/orders/price-preview", h.handlePricePreview)
	r.Post("/orders/{id}/approve", h.decision(true))
	r.Post("/orders/{id}/reject", h.decision(false))
	r.Post("/orders/{id}/prepare", h.dispatch(StatusPrepared))
	r.Post("/orders/{id}/deliver", h.dispatch(StatusDelivered))
	r.Delete("/orders/{id}", h.handleCancel)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	input := CreateInput{LunchOptionID: req.LunchOptionID}
	if req.Date != "" {
		date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: date", httpx.ErrValidation))
			return
		}
		input.Date = date
	}
	quote, err := h.service.Create(r.Context(), identity, input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	result, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleListCompany(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	filters := ListFilters{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			httpx.RespondError(w, fmt.Errorf("%w: status", httpx.ErrValidation))
			return
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: date", httpx.ErrValidation))
			return
		}
		filters.DateFrom = &date
		filters.DateTo = &date
	}
	result, err := h.service.ListForCompany(r.Context(), identity, filters)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handlePricePreview(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	optionID, err := uuid.Parse(r.URL.Query().Get("lunch_option_id"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: lunch_option_id", httpx.ErrValidation))
		return
	}
	companyID := uuid.Nil
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		companyID, err = uuid.Parse(raw)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: company_id", httpx.ErrValidation))
			return
		}
	} else if identity.CompanyID != nil {
		companyID = *identity.CompanyID
	}
	if companyID == uuid.Nil {
		httpx.RespondError(w, fmt.Errorf("%w: company_id required", httpx.ErrValidation))
		return
	}
	quote, err := h.service.PricePreview(r.Context(), companyID, optionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) decision(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := shared.IdentityFromContext(r.Context())
		if identity == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: order id", httpx.ErrValidation))
			return
		}
		if err := h.service.Decide(r.Context(), identity, id, approve); err != nil {
			h.respondServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) dispatch(target Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := shared.IdentityFromContext(r.Context())
		if identity == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: order id", httpx.ErrValidation))
			return
		}
		if err := h.service.Dispatch(r.Context(), identity, id, target); err != nil {
			h.respondServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: order id", httpx.ErrValidation))
		return
	}
	if err := h.service.Cancel(r.Context(), identity, id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		httpx.RespondError(w, httpx.ErrForbidden)
	case errors.Is(err, ErrNotFound), errors.Is(err, masterdata.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrDuplicateOrder):
		httpx.RespondError(w, httpx.ErrDuplicate)
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrOptionUnavailable):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrUnassignedCompany):
		httpx.Problem(w, http.StatusConflict, "No Company Assigned", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
