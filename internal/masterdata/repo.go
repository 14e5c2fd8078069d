package masterdata

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("masterdata: record not found")

// Repository exposes read/write access to providers, companies and lunch options.
type Repository interface {
	ListProviders(ctx context.Context) ([]Provider, error)
	GetProvider(ctx context.Context, id uuid.UUID) (Provider, error)
	ListCompanies(ctx context.Context, providerID *uuid.UUID) ([]Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	CreateCompany(ctx context.Context, company Company) (Company, error)
	UpdateCompanySubsidy(ctx context.Context, id uuid.UUID, company Company) error
	ListLunchOptions(ctx context.Context, providerID *uuid.UUID, availableOnly bool) ([]LunchOption, error)
	GetLunchOption(ctx context.Context, id uuid.UUID) (LunchOption, error)
	CreateLunchOption(ctx context.Context, option LunchOption) (LunchOption, error)
}

type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates a new master data repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

func (r *repo) ListProviders(ctx context.Context) ([]Provider, error) {
	query := `SELECT id, business_name, created_at, updated_at FROM providers ORDER BY business_name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []Provider
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.BusinessName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func (r *repo) GetProvider(ctx context.Context, id uuid.UUID) (Provider, error) {
	query := `SELECT id, business_name, created_at, updated_at FROM providers WHERE id = $1`
	var p Provider
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.BusinessName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Provider{}, ErrNotFound
	}
	return p, err
}

func (r *repo) ListCompanies(ctx context.Context, providerID *uuid.UUID) ([]Company, error) {
	query := `SELECT id, provider_id, name, subsidy_percentage, fixed_subsidy_amount, created_at, updated_at FROM companies`
	args := []interface{}{}
	if providerID != nil {
		query += ` WHERE provider_id = $1`
		args = append(args, *providerID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *repo) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	query := `SELECT id, provider_id, name, subsidy_percentage, fixed_subsidy_amount, created_at, updated_at
	          FROM companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (r *repo) CreateCompany(ctx context.Context, company Company) (Company, error) {
	query := `INSERT INTO companies (id, provider_id, name, subsidy_percentage, fixed_subsidy_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)`
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, query,
		company.ID, company.ProviderID, company.Name,
		company.Subsidy.Percentage, company.Subsidy.FixedAmount, now)
	if err != nil {
		return Company{}, err
	}
	company.CreatedAt = now
	company.UpdatedAt = now
	return company, nil
}

func (r *repo) UpdateCompanySubsidy(ctx context.Context, id uuid.UUID, company Company) error {
	query := `UPDATE companies SET subsidy_percentage = $1, fixed_subsidy_amount = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, company.Subsidy.Percentage, company.Subsidy.FixedAmount, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) ListLunchOptions(ctx context.Context, providerID *uuid.UUID, availableOnly bool) ([]LunchOption, error) {
	query := `SELECT id, provider_id, name, price, available, created_at, updated_at FROM lunch_options`
	var conditions []string
	args := []interface{}{}
	if providerID != nil {
		conditions = append(conditions, `provider_id = $1`)
		args = append(args, *providerID)
	}
	if availableOnly {
		conditions = append(conditions, `available`)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []LunchOption
	for rows.Next() {
		var o LunchOption
		if err := rows.Scan(&o.ID, &o.ProviderID, &o.Name, &o.Price, &o.Available, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *repo) GetLunchOption(ctx context.Context, id uuid.UUID) (LunchOption, error) {
	query := `SELECT id, provider_id, name, price, available, created_at, updated_at FROM lunch_options WHERE id = $1`
	var o LunchOption
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.ProviderID, &o.Name, &o.Price, &o.Available, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LunchOption{}, ErrNotFound
	}
	return o, err
}

func (r *repo) CreateLunchOption(ctx context.Context, option LunchOption) (LunchOption, error) {
	query := `INSERT INTO lunch_options (id, provider_id, name, price, available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)`
	if option.ID == uuid.Nil {
		option.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, query, option.ID, option.ProviderID, option.Name, option.Price, option.Available, now)
	if err != nil {
		return LunchOption{}, err
	}
	option.CreatedAt = now
	option.UpdatedAt = now
	return option, nil
}

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.ProviderID, &c.Name,
		&c.Subsidy.Percentage, &c.Subsidy.FixedAmount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
