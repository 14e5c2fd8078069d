package stats

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WebLink-Company/mi-comida/internal/orders"
	"github.com/WebLink-Company/mi-comida/internal/pricing"
)

// NoDataMealName is the sentinel reported when no eligible order names a
// top meal. Dashboards render it verbatim.
const NoDataMealName = "no data"

// LunchOptionRef is the joined lunch-option enrichment attached to an order
// row. The price is the option's price at query time; orders carry no
// point-in-time snapshot.
type LunchOptionRef struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// OrderRow is one fetched order with optional lunch-option enrichment.
// LunchOption is nil when the referenced option no longer exists; such rows
// still count toward raw totals but are excluded from revenue and top-meal
// statistics.
type OrderRow struct {
	OrderID     uuid.UUID
	CompanyID   uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Status      orders.Status
	LunchOption *LunchOptionRef
}

// CompanyInfo is the slice of company data the aggregator needs: identity
// for rollups and the subsidy configuration for revenue.
type CompanyInfo struct {
	ID      uuid.UUID
	Name    string
	Subsidy pricing.SubsidyConfig
}

// TopMeal is the most ordered meal of the day.
type TopMeal struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CompanyRollup summarizes one company's orders inside the window. Note
// that PendingCount is a residual (orders not yet dispatched, so it absorbs
// approved and rejected rows too), deliberately broader than the literal
// pending status counted by MetricsBundle.PendingOrders.
type CompanyRollup struct {
	CompanyID         uuid.UUID `json:"companyId"`
	Name              string    `json:"name"`
	OrderCount        int       `json:"orderCount"`
	DistinctUserCount int       `json:"distinctUserCount"`
	DispatchedCount   int       `json:"dispatchedCount"`
	PendingCount      int       `json:"pendingCount"`
}

// MetricsBundle is the full dashboard metrics result. Every numeric field
// is zero and TopOrderedMeal is the "no data" sentinel when the scope holds
// no orders; the bundle is never partially populated.
type MetricsBundle struct {
	OrdersToday              int             `json:"ordersToday"`
	TotalMealsToday          int             `json:"totalMealsToday"`
	CompaniesWithOrdersToday int             `json:"companiesWithOrdersToday"`
	TopOrderedMeal           TopMeal         `json:"topOrderedMeal"`
	PendingOrders            int             `json:"pendingOrders"`
	MonthlyOrders            int             `json:"monthlyOrders"`
	MonthlyRevenue           float64         `json:"monthlyRevenue"`
	Companies                []CompanyRollup `json:"companies,omitempty"`
}

// ZeroBundle returns the well-defined empty result.
func ZeroBundle() MetricsBundle {
	return MetricsBundle{TopOrderedMeal: TopMeal{Name: NoDataMealName, Count: 0}}
}
