package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yudhapratama/desaku/backend/internal/model/user"
	"github.com/yudhapratama/desaku/backend/internal/service/auth"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the verified identity set by RequireAuth.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity on the request context.
func RequireAuth(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				utils.RespondError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			identity, err := authSvc.VerifyToken(token)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin limits a route group to admin accounts. Must run after
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.Role != user.RoleAdmin {
			utils.RespondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
