package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/WebLink-Company/mi-comida/internal/orders"
)

// FetchError wraps a data-source failure. Transient; the caller decides
// whether to retry.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("stats: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Repository is the read-only query surface the stats engine depends on.
type Repository interface {
	CompanyLister
	// FetchOrders returns every order in scope dated within the inclusive
	// window, all statuses, with lunch-option enrichment where the join
	// resolves. An empty scope short-circuits without querying.
	FetchOrders(ctx context.Context, scope Scope, window Window) ([]OrderRow, error)
	// CountPending counts literal pending-status orders in scope across all
	// dates.
	CountPending(ctx context.Context, scope Scope) (int, error)
	// CompaniesInScope returns name and subsidy configuration for every
	// company the scope covers.
	CompaniesInScope(ctx context.Context, scope Scope) ([]CompanyInfo, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a pgx-backed stats repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) FetchOrders(ctx context.Context, scope Scope, window Window) ([]OrderRow, error) {
	if scope.Empty() {
		return nil, nil
	}

	query := `SELECT o.id, o.company_id, o.user_id, o.order_date, o.status,
	                 l.id, l.name, l.price
	          FROM orders o
	          LEFT JOIN lunch_options l ON l.id = o.lunch_option_id
	          WHERE o.order_date >= $1 AND o.order_date <= $2`
	args := []interface{}{window.Start, window.End}
	if !scope.All() {
		query += ` AND o.company_id = ANY($3)`
		args = append(args, scope.CompanyIDs())
	}
	query += ` ORDER BY o.order_date, o.created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, &FetchError{Op: "fetch orders", Err: err}
	}
	defer rows.Close()

	var result []OrderRow
	for rows.Next() {
		var (
			row         OrderRow
			optionID    *uuid.UUID
			optionName  *string
			optionPrice *decimal.Decimal
		)
		if err := rows.Scan(&row.OrderID, &row.CompanyID, &row.UserID, &row.Date, &row.Status,
			&optionID, &optionName, &optionPrice); err != nil {
			return nil, &FetchError{Op: "scan order row", Err: err}
		}
		if optionID != nil && optionName != nil && optionPrice != nil {
			row.LunchOption = &LunchOptionRef{ID: *optionID, Name: *optionName, Price: *optionPrice}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Op: "fetch orders", Err: err}
	}
	return result, nil
}

func (r *repository) CountPending(ctx context.Context, scope Scope) (int, error) {
	if scope.Empty() {
		return 0, nil
	}

	query := `SELECT COUNT(*) FROM orders WHERE status = $1`
	args := []interface{}{orders.StatusPending}
	if !scope.All() {
		query += ` AND company_id = ANY($2)`
		args = append(args, scope.CompanyIDs())
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, &FetchError{Op: "count pending orders", Err: err}
	}
	return count, nil
}

func (r *repository) CompaniesInScope(ctx context.Context, scope Scope) ([]CompanyInfo, error) {
	if scope.Empty() {
		return nil, nil
	}

	query := `SELECT id, name, subsidy_percentage, fixed_subsidy_amount FROM companies`
	args := []interface{}{}
	if !scope.All() {
		query += ` WHERE id = ANY($1)`
		args = append(args, scope.CompanyIDs())
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, &FetchError{Op: "fetch companies", Err: err}
	}
	defer rows.Close()

	var result []CompanyInfo
	for rows.Next() {
		var info CompanyInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Subsidy.Percentage, &info.Subsidy.FixedAmount); err != nil {
			return nil, &FetchError{Op: "scan company row", Err: err}
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Op: "fetch companies", Err: err}
	}
	return result, nil
}

func (r *repository) CompanyIDsByProvider(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM companies WHERE provider_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, providerID)
	if err != nil {
		return nil, &FetchError{Op: "list provider companies", Err: err}
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, &FetchError{Op: "scan company id", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Op: "list provider companies", Err: err}
	}
	return ids, nil
}
