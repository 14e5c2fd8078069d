package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("orders: record not found")
	// ErrDuplicateOrder indicates the user already ordered for that date.
	ErrDuplicateOrder = errors.New("orders: order already exists for user and date")
	// ErrNotPending indicates a delete attempted on a non-pending order.
	ErrNotPending = errors.New("orders: only pending orders can be cancelled")
)

const uniqueViolation = "23505"

// ListFilters narrows order listings.
type ListFilters struct {
	CompanyID *uuid.UUID
	UserID    *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Repository persists orders.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filters ListFilters) ([]Order, error)
	Create(ctx context.Context, order Order) (Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	DeletePending(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a pgx-backed order repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `SELECT id, company_id, user_id, lunch_option_id, order_date, status, created_at, updated_at
	          FROM orders WHERE id = $1`
	var o Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.UserID, &o.LunchOptionID, &o.Date, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, error) {
	query := `SELECT id, company_id, user_id, lunch_option_id, order_date, status, created_at, updated_at FROM orders`
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.CompanyID != nil {
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", argPos))
		args = append(args, *filters.CompanyID)
		argPos++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *filters.UserID)
		argPos++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("order_date >= $%d", argPos))
		args = append(args, *filters.DateFrom)
		argPos++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("order_date <= $%d", argPos))
		args = append(args, *filters.DateTo)
		argPos++
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY order_date DESC, created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.UserID, &o.LunchOptionID, &o.Date, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	query := `INSERT INTO orders (id, company_id, user_id, lunch_option_id, order_date, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, query,
		order.ID, order.CompanyID, order.UserID, order.LunchOptionID, order.Date, order.Status, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Order{}, ErrDuplicateOrder
		}
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

// UpdateStatus applies a transition with the expected source status guarding
// against concurrent decisions on the same order.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	tag, err := r.db.Exec(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeletePending(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = $1 AND status = $2`
	tag, err := r.db.Exec(ctx, query, id, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing order from one that moved past pending.
		if _, getErr := r.Get(ctx, id); getErr == nil {
			return ErrNotPending
		}
		return ErrNotFound
	}
	return nil
}
