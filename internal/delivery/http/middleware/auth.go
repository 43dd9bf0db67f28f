package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context carrying the verified identity. Used by auth middleware.
func SetIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated identity from the context, if present.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// RequireAuth validates the bearer token and stores the identity in the request context.
// No token at all is 403; a token that fails verification or a non-Bearer scheme is 401.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			token = strings.TrimSpace(token)
			if token == "" {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "Access denied: No token provided")
				return
			}
			if !strings.EqualFold(scheme, "Bearer") {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Invalid or expired token")
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin lets the request through only when the store says the identity is an admin.
// It must run after RequireAuth.
func RequireAdmin(checker domain.AdminChecker, errs *h.ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity.UserID == 0 {
				h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "User ID missing from token")
				return
			}
			isAdmin, err := checker.IsAdmin(r.Context(), identity)
			if err != nil {
				if errors.Is(err, domain.ErrValidation) ||
					errors.Is(err, domain.ErrStoreAccessDenied) ||
					errors.Is(err, domain.ErrStoreUnavailable) {
					errs.Write(w, r, err)
					return
				}
				errs.Internal(w, r, err, "Error checking admin status")
				return
			}
			if !isAdmin {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
