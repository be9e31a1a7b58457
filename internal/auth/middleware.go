package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// isPublic reports whether a request may skip authentication: health,
// catalogue and banner reads, local media, and the payment gateway redirect.
func isPublic(r *http.Request) bool {
	path := r.URL.Path
	switch {
	case path == "/health":
		return true
	case strings.HasPrefix(path, "/media/"):
		return true
	case path == "/api/shop/order/return":
		return true
	case r.Method == http.MethodGet &&
		(path == "/api/shop/products" || strings.HasPrefix(path, "/api/shop/products/") || path == "/api/common/feature"):
		return true
	}
	return false
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: code, Message: message})
}

// Middleware authenticates bearer tokens and stores the Principal in the
// request context. A nil validator rejects every protected request.
func Middleware(validator *Validator, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, "Unauthorised user!")
				return
			}

			if validator == nil {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, "Authentication not configured")
				return
			}

			claims, err := validator.Validate(tokenStr)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, "Invalid or expired token")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:   claims.Subject,
				Role:     claims.Role,
				UserName: claims.UserName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := PrincipalFrom(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, "Unauthorised user!")
			return
		}
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, model.ErrCodeUnauthorised, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
