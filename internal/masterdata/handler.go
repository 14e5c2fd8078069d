package masterdata

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WebLink-Company/mi-comida/internal/platform/httpx"
	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Handler serves the master data HTTP surface.
type Handler struct {
	service  Service
	validate *validator.Validate
}

// NewHandler constructs the master data handler.
func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

type createCompanyRequest struct {
	ProviderID        uuid.UUID       `json:"provider_id" validate:"required"`
	Name              string          `json:"name" validate:"required,max=120"`
	SubsidyPercentage decimal.Decimal `json:"subsidy_percentage"`
	FixedSubsidy      decimal.Decimal `json:"fixed_subsidy_amount"`
}

type createLunchOptionRequest struct {
	ProviderID uuid.UUID       `json:"provider_id" validate:"required"`
	Name       string          `json:"name" validate:"required,max=120"`
	Price      decimal.Decimal `json:"price"`
	Available  bool            `json:"available"`
}

// MountRoutes registers master data endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/providers", h.handleListProviders)
	r.Get("/companies", h.handleListCompanies)
	r.Post("/companies", h.handleCreateCompany)
	r.Get("/companies/{id}", h.handleGetCompany)
	r.Put("/companies/{id}/subsidy", h.handleUpdateSubsidy)
	r.Get("/lunch-options", h.handleListLunchOptions)
	r.Post("/lunch-options", h.handleCreateLunchOption)
}

func (h *Handler) handleListProviders(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil || identity.Role != shared.RoleAdmin {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	providers, err := h.service.ListProviders(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, providers)
}

func (h *Handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	companies, err := h.service.ListCompanies(r.Context(), identity)
	if err != nil {
		if errors.Is(err, shared.ErrUnassignedCompany) {
			httpx.Problem(w, http.StatusConflict, "No Company Assigned", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, companies)
}

func (h *Handler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: company id", httpx.ErrValidation))
		return
	}
	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func (h *Handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil || identity.Role != shared.RoleAdmin {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	var req createCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	company, err := h.service.CreateCompany(r.Context(), companyFromRequest(req))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, company)
}

func (h *Handler) handleUpdateSubsidy(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil || identity.Role != shared.RoleAdmin {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: company id", httpx.ErrValidation))
		return
	}
	var req createCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.service.UpdateCompanySubsidy(r.Context(), id, companyFromRequest(req)); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListLunchOptions(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var providerID *uuid.UUID
	if raw := r.URL.Query().Get("provider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: provider_id", httpx.ErrValidation))
			return
		}
		providerID = &id
	}
	availableOnly := r.URL.Query().Get("available") == "true"
	options, err := h.service.ListLunchOptions(r.Context(), providerID, availableOnly)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, options)
}

func (h *Handler) handleCreateLunchOption(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil || (identity.Role != shared.RoleAdmin && identity.Role != shared.RoleProvider) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	var req createLunchOptionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	// Providers may only publish options under their own tenant.
	if identity.Role == shared.RoleProvider && (identity.ProviderID == nil || *identity.ProviderID != req.ProviderID) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	option, err := h.service.CreateLunchOption(r.Context(), LunchOption{
		ProviderID: req.ProviderID,
		Name:       req.Name,
		Price:      req.Price,
		Available:  req.Available,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, option)
}

func companyFromRequest(req createCompanyRequest) Company {
	c := Company{
		ProviderID: req.ProviderID,
		Name:       req.Name,
	}
	c.Subsidy.Percentage = req.SubsidyPercentage
	c.Subsidy.FixedAmount = req.FixedSubsidy
	return c
}
