package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inflow/internal/auth"
	"inflow/internal/authz"
)

func protectedStack(t *testing.T, loader auth.PrincipalLoader, rules []authz.Rule) http.Handler {
	t.Helper()
	codec := auth.NewCodec("test-secret", time.Hour)
	policy := authz.NewPolicy(rules)
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return Auth(codec, loader, policy.Public)(Authorize(policy)(final))
}

func issue(t *testing.T, subject string, role auth.Role) string {
	t.Helper()
	token, err := auth.NewCodec("test-secret", time.Hour).Issue(subject, role)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	return token
}

func TestAuthorizeWhitelistedPaths(t *testing.T) {
	handler := protectedStack(t, &fakeLoader{}, authz.DefaultRules())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/actuator/health", http.StatusOK},
		{http.MethodPost, "/api/login", http.StatusOK},
		{http.MethodPost, "/api/auth/request-reset", http.StatusOK},
		{http.MethodGet, "/api/employees", http.StatusUnauthorized},
		{http.MethodGet, "/api/unlisted", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
	}
}

func TestAuthorizeRoleDecisions(t *testing.T) {
	loader := &fakeLoader{principals: map[string]auth.Principal{
		"E001": {EmployeeNumber: "E001", Role: auth.RoleEmployee},
	}}
	rules := []authz.Rule{
		{Pattern: "/api/statistics/**", Method: http.MethodDelete, Roles: []auth.Role{auth.RoleAdmin}},
		{Pattern: "/api/employees/**", Method: http.MethodGet, Roles: []auth.Role{auth.RoleEmployee, auth.RoleHR, auth.RoleManager, auth.RoleAdmin}},
	}
	handler := protectedStack(t, loader, rules)
	token := issue(t, "E001", auth.RoleEmployee)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/E001", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for permitted role, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/statistics/monthly", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for insufficient role, got %d", rec.Code)
	}
}

func TestAuthorizeStaleTokenAfterResignation(t *testing.T) {
	loader := &fakeLoader{principals: map[string]auth.Principal{}}
	handler := protectedStack(t, loader, authz.DefaultRules())
	token := issue(t, "E001", auth.RoleEmployee)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/E001", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 once the principal is gone, got %d", rec.Code)
	}
}

func TestAuthorizeInvalidTokenCollapsesToUnauthenticated(t *testing.T) {
	loader := &fakeLoader{principals: map[string]auth.Principal{
		"E001": {EmployeeNumber: "E001", Role: auth.RoleEmployee},
	}}
	handler := protectedStack(t, loader, authz.DefaultRules())

	expired, err := auth.NewCodec("test-secret", -time.Minute).Issue("E001", auth.RoleEmployee)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	for _, token := range []string{"garbage", expired} {
		req := httptest.NewRequest(http.MethodGet, "/api/employees/E001", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for token %q, got %d", token, rec.Code)
		}
	}
}
