package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Service verifies presented credentials. Tokens have the form
// "<token-id>.<secret>"; the id locates the record and the secret is
// compared against its bcrypt hash.
type Service struct {
	repo Repository
}

// NewService constructs the auth service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve verifies a raw bearer token and returns the tenant identity it
// carries. Every failure mode collapses to shared.ErrInvalidToken so the
// response does not leak which part of the credential was wrong.
func (s *Service) Resolve(ctx context.Context, rawToken string) (*shared.TenantIdentity, error) {
	idPart, secret, ok := strings.Cut(strings.TrimSpace(rawToken), ".")
	if !ok || secret == "" {
		return nil, shared.ErrInvalidToken
	}
	tokenID, err := uuid.Parse(idPart)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}

	token, err := s.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if token.RevokedAt != nil {
		return nil, shared.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword(token.Hash, []byte(secret)); err != nil {
		return nil, shared.ErrInvalidToken
	}
	if !token.Role.Valid() {
		return nil, shared.ErrInvalidToken
	}
	return token.Identity(), nil
}

// HashSecret produces the stored hash for a new token secret. Used by
// provisioning tooling, not by the request path.
func HashSecret(secret string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
}
