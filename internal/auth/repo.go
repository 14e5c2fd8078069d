package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Repository loads provisioned service tokens.
type Repository interface {
	GetToken(ctx context.Context, id uuid.UUID) (ServiceToken, error)
}

type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates a pgx-backed token repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

func (r *repo) GetToken(ctx context.Context, id uuid.UUID) (ServiceToken, error) {
	query := `SELECT id, user_id, role, provider_id, company_id, token_hash, revoked_at, created_at
	          FROM service_tokens WHERE id = $1`
	var t ServiceToken
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Role, &t.ProviderID, &t.CompanyID, &t.Hash, &t.RevokedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceToken{}, shared.ErrInvalidToken
	}
	return t, err
}
