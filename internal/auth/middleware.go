package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/WebLink-Company/mi-comida/internal/platform/httpx"
	"github.com/WebLink-Company/mi-comida/internal/shared"
)

// Middleware authenticates requests carrying an Authorization bearer token
// and installs the resolved identity into the request context. Requests
// without a token pass through unauthenticated; handlers decide whether
// anonymous access is acceptable.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			identity, err := service.Resolve(r.Context(), raw)
			if err != nil {
				logger.Debug("token rejected", slog.Any("error", err))
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
		})
	}
}
