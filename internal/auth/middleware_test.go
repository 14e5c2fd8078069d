package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebLink-Company/mi-comida/internal/shared"
)

func TestMiddlewareInstallsIdentity(t *testing.T) {
	token, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := Middleware(NewService(repo), logger)

	var seen *shared.TenantIdentity
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token.ID.String()+".s3cret")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, token.UserID, seen.UserID)
}

func TestMiddlewarePassesAnonymousThrough(t *testing.T) {
	_, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := Middleware(NewService(repo), logger)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, shared.IdentityFromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	_, repo := seedToken(t, shared.RoleAdmin, "s3cret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := Middleware(NewService(repo), logger)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"Basic abc", "Bearer nonsense"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}
