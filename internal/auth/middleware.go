package auth

import (
	"net/http"
	"strings"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
	"github.com/odyssey-erp/storefront/internal/shared"
	"github.com/odyssey-erp/storefront/internal/token"
)

// Middleware gates protected routes behind bearer-token verification.
// It holds no per-request state; each request is filtered independently.
type Middleware struct {
	tokens *token.Service
}

// NewMiddleware constructs the auth gate around a token service.
func NewMiddleware(tokens *token.Service) Middleware {
	return Middleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the decoded identity to the request context for downstream handlers.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, raw, found := strings.Cut(r.Header.Get("Authorization"), " ")
		if !found || scheme != "Bearer" || raw == "" {
			httpx.Error(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}
		claims, err := m.tokens.Verify(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		ident := shared.Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), ident)))
	})
}

// RequireAdmin rejects non-admin identities. It must be mounted after
// RequireAuth so the identity is already attached.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := shared.IdentityFromContext(r.Context())
		if !ok || !ident.IsAdmin() {
			httpx.Error(w, http.StatusForbidden, "Admin required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
