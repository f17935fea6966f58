package middleware

import (
	"log/slog"
	"net/http"

	"github.com/danuandrean/pettycash/internal/auth"
)

// RequireRole creates a middleware that allows only users holding one of
// the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasRole(roles...) {
				slog.Warn("access denied: user lacks required role",
					"user_id", user.ID,
					"user_role", user.Role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
