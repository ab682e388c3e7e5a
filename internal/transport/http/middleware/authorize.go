package middleware

import (
	"net/http"

	"inflow/internal/auth"
	"inflow/internal/authz"
	"inflow/internal/transport/http/api"
)

// Authorize enforces the access-control table. It is the single place a
// request is turned away for missing or insufficient identity.
func Authorize(policy *authz.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sc *auth.SecurityContext
			if user, ok := GetUser(r.Context()); ok {
				sc = &user
			}

			switch policy.Decide(r.URL.Path, r.Method, sc) {
			case authz.Allow:
				next.ServeHTTP(w, r)
			case authz.DenyUnauthenticated:
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			case authz.DenyForbidden:
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
			}
		})
	}
}
