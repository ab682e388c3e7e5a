package middleware

import (
	"context"
	"net/http"
	"strings"

	"inflow/internal/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "security_context"

// Auth is the per-request authentication filter. It extracts the bearer
// token, verifies it, and re-derives the caller's current role through the
// principal loader rather than trusting the token's embedded claim, so a role
// change or resignation after issuance takes effect on the next request.
//
// The filter never rejects a request itself: every failure leaves the request
// unauthenticated and the authorization policy produces the final 401/403.
func Auth(codec *auth.Codec, loader auth.PrincipalLoader, public func(path, method string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public != nil && public(r.URL.Path, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := loader.FindPrincipal(r.Context(), claims.Subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, auth.SecurityContext{
				EmployeeNumber: principal.EmployeeNumber,
				Role:           principal.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func GetUser(ctx context.Context) (auth.SecurityContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.SecurityContext)
	return user, ok
}
