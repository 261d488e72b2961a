package auth

import (
	"context"
	"net/http"

	"github.com/hyeonwook/anonboard/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the principal.
type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated identity stored in the request context by
// the guards below.
type Principal struct {
	UserID   string
	Nickname string
	Role     model.Role
}

// CookieName is the HttpOnly cookie holding the session token.
const CookieName = "token"

// RequireAuth guards member-only routes. It validates the session cookie and
// stores the Principal in the request context; without a valid token the
// chain stops with 401 before any handler output, so protected content is
// never written first and revoked later.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := extractPrincipal(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards routes that demand a specific role, administrator-only
// pages in practice. It implies RequireAuth.
func RequireRole(tokens *TokenService, role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := extractPrincipal(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}
			if p.Role != role {
				http.Error(w, `{"error":"forbidden","message":"administrator access required"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid token is present but never
// blocks the request. Anonymous reads of public lists go through this so
// handlers can still tell who is asking.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, err := extractPrincipal(r, tokens); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), principalKey, p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.UserID != ""
}

func extractPrincipal(r *http.Request, tokens *TokenService) (Principal, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Principal{}, err
	}

	claims, err := tokens.Validate(cookie.Value)
	if err != nil {
		return Principal{}, err
	}

	return Principal{
		UserID:   claims.Subject,
		Nickname: claims.Nickname,
		Role:     claims.Role(),
	}, nil
}
