package masterdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WebLink-Company/mi-comida/internal/pricing"
)

// Provider represents a meal supplier tenant.
type Provider struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Company represents a client company served by a provider. Its subsidy
// configuration drives the price split for every employee order.
type Company struct {
	ID         uuid.UUID             `json:"id"`
	ProviderID uuid.UUID             `json:"provider_id"`
	Name       string                `json:"name"`
	Subsidy    pricing.SubsidyConfig `json:"subsidy"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// LunchOption represents a meal offered by a provider. Price is read at
// query time; orders do not snapshot it (known reporting limitation).
type LunchOption struct {
	ID         uuid.UUID       `json:"id"`
	ProviderID uuid.UUID       `json:"provider_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Available  bool            `json:"available"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
