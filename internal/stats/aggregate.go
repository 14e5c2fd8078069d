package stats

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WebLink-Company/mi-comida/internal/orders"
	"github.com/WebLink-Company/mi-comida/internal/pricing"
)

// AggregateInput carries everything the aggregator consumes. Rows hold all
// statuses within the window; PendingTotal is the date-unrestricted count of
// literal pending orders for the same scope, fetched separately because
// outstanding supervisor work is not bounded by the reporting window.
type AggregateInput struct {
	Rows          []OrderRow
	PendingTotal  int
	Window        Window
	Today         time.Time
	Companies     []CompanyInfo
	IncludeRollup bool
}

// revenueEligible marks statuses representing fulfilled intent. Pending and
// rejected orders never contribute to revenue or meal counts.
func revenueEligible(s orders.Status) bool {
	return s == orders.StatusApproved || s == orders.StatusPrepared || s == orders.StatusDelivered
}

func dispatched(s orders.Status) bool {
	return s == orders.StatusPrepared || s == orders.StatusDelivered
}

type mealTally struct {
	name  string
	count int
}

type companyTally struct {
	orderCount      int
	dispatchedCount int
	users           map[uuid.UUID]struct{}
}

// Aggregate reduces the fetched rows to the dashboard metrics bundle in a
// single pass. It performs no I/O, never mutates its input, and resolves
// every metric to a defined zero state on empty input.
func Aggregate(in AggregateInput) MetricsBundle {
	bundle := ZeroBundle()
	bundle.PendingOrders = in.PendingTotal

	subsidies := make(map[uuid.UUID]pricing.SubsidyConfig, len(in.Companies))
	for _, company := range in.Companies {
		subsidies[company.ID] = company.Subsidy
	}

	var (
		revenue        decimal.Decimal
		todayCompanies = make(map[uuid.UUID]struct{})
		mealCounts     = make(map[uuid.UUID]*mealTally)
		mealOrder      []uuid.UUID // first-seen order; Go maps do not keep it
		perCompany     = make(map[uuid.UUID]*companyTally)
	)

	for _, row := range in.Rows {
		if in.IncludeRollup {
			tally := perCompany[row.CompanyID]
			if tally == nil {
				tally = &companyTally{users: make(map[uuid.UUID]struct{})}
				perCompany[row.CompanyID] = tally
			}
			tally.orderCount++
			tally.users[row.UserID] = struct{}{}
			if dispatched(row.Status) {
				tally.dispatchedCount++
			}
		}

		if !revenueEligible(row.Status) {
			continue
		}

		bundle.MonthlyOrders++
		if row.LunchOption != nil {
			quote := pricing.Price(row.LunchOption.Price, subsidies[row.CompanyID])
			revenue = revenue.Add(quote.Payable)
		}

		if !SameDay(row.Date, in.Today) {
			continue
		}
		bundle.OrdersToday++
		todayCompanies[row.CompanyID] = struct{}{}
		if row.LunchOption != nil {
			tally := mealCounts[row.LunchOption.ID]
			if tally == nil {
				tally = &mealTally{name: row.LunchOption.Name}
				mealCounts[row.LunchOption.ID] = tally
				mealOrder = append(mealOrder, row.LunchOption.ID)
			}
			tally.count++
		}
	}

	// One meal per order, so today's meal total equals today's order count.
	bundle.TotalMealsToday = bundle.OrdersToday
	bundle.CompaniesWithOrdersToday = len(todayCompanies)
	bundle.MonthlyRevenue = revenue.InexactFloat64()

	// Strict > against the running best keeps the first-encountered option
	// on exact count ties.
	for _, id := range mealOrder {
		if tally := mealCounts[id]; tally.count > bundle.TopOrderedMeal.Count {
			bundle.TopOrderedMeal = TopMeal{Name: tally.name, Count: tally.count}
		}
	}

	if in.IncludeRollup {
		bundle.Companies = buildRollups(in.Companies, perCompany)
	}

	return bundle
}

// buildRollups emits one entry per company in scope, zeros included, in the
// directory's company order. PendingCount is the not-yet-dispatched
// residual, not the literal pending status.
func buildRollups(companies []CompanyInfo, tallies map[uuid.UUID]*companyTally) []CompanyRollup {
	rollups := make([]CompanyRollup, 0, len(companies))
	for _, company := range companies {
		rollup := CompanyRollup{CompanyID: company.ID, Name: company.Name}
		if tally := tallies[company.ID]; tally != nil {
			rollup.OrderCount = tally.orderCount
			rollup.DistinctUserCount = len(tally.users)
			rollup.DispatchedCount = tally.dispatchedCount
			rollup.PendingCount = tally.orderCount - tally.dispatchedCount
		}
		rollups = append(rollups, rollup)
	}
	return rollups
}
