package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

type fakeTokenRepo struct {
	tokens map[uuid.UUID]ServiceToken
}

func (f *fakeTokenRepo) GetToken(_ context.Context, id uuid.UUID) (ServiceToken, error) {
	t, ok := f.tokens[id]
	if !ok {
		return ServiceToken{}, shared.ErrInvalidToken
	}
	return t, nil
}

func seedToken(t *testing.T, role shared.Role, secret string) (ServiceToken, *fakeTokenRepo) {
	t.Helper()
	hash, err := HashSecret(secret)
	require.NoError(t, err)
	token := ServiceToken{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Role:   role,
		Hash:   hash,
	}
	return token, &fakeTokenRepo{tokens: map[uuid.UUID]ServiceToken{token.ID: token}}
}

func TestResolveValidToken(t *testing.T) {
	companyID := uuid.New()
	token, repo := seedToken(t, shared.RoleSupervisor, "s3cret")
	token.CompanyID = &companyID
	repo.tokens[token.ID] = token

	identity, err := NewService(repo).Resolve(context.Background(), token.ID.String()+".s3cret")
	require.NoError(t, err)
	assert.Equal(t, token.UserID, identity.UserID)
	assert.Equal(t, shared.RoleSupervisor, identity.Role)
	require.NotNil(t, identity.CompanyID)
	assert.Equal(t, companyID, *identity.CompanyID)
}

func TestResolveWrongSecret(t *testing.T) {
	token, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	_, err := NewService(repo).Resolve(context.Background(), token.ID.String()+".wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestResolveMalformedToken(t *testing.T) {
	_, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	svc := NewService(repo)
	ctx := context.Background()

	for _, raw := range []string{"", "no-dot", "not-a-uuid.secret", uuid.NewString() + "."} {
		_, err := svc.Resolve(ctx, raw)
		assert.ErrorIsf(t, err, shared.ErrInvalidToken, "raw %q", raw)
	}
}

func TestResolveUnknownTokenID(t *testing.T) {
	_, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	_, err := NewService(repo).Resolve(context.Background(), uuid.NewString()+".s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestResolveRevokedToken(t *testing.T) {
	token, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	revoked := time.Now().UTC()
	token.RevokedAt = &revoked
	repo.tokens[token.ID] = token

	_, err := NewService(repo).Resolve(context.Background(), token.ID.String()+".s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestResolveUnknownRole(t *testing.T) {
	token, repo := seedToken(t, shared.Role("auditor"), "s3cret")
	_, err := NewService(repo).Resolve(context.Background(), token.ID.String()+".s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}
