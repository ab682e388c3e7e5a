package authz

import (
	"net/http"
	"testing"

	"inflow/internal/auth"
)

func TestDecidePermitAll(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/actuator/health", Method: http.MethodGet, PermitAll: true},
	})

	if got := policy.Decide("/actuator/health", http.MethodGet, nil); got != Allow {
		t.Fatalf("expected Allow for anonymous health check, got %v", got)
	}
}

func TestDecideRoleMembership(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/api/statistics/**", Method: http.MethodDelete, Roles: []auth.Role{auth.RoleAdmin}},
		{Pattern: "/api/statistics/**", Method: http.MethodGet, Roles: anyStaff},
	})

	employee := &auth.SecurityContext{EmployeeNumber: "E001", Role: auth.RoleEmployee}
	admin := &auth.SecurityContext{EmployeeNumber: "A001", Role: auth.RoleAdmin}

	if got := policy.Decide("/api/statistics/monthly", http.MethodDelete, employee); got != DenyForbidden {
		t.Fatalf("expected DenyForbidden for employee delete, got %v", got)
	}
	if got := policy.Decide("/api/statistics/monthly", http.MethodDelete, admin); got != Allow {
		t.Fatalf("expected Allow for admin delete, got %v", got)
	}
	if got := policy.Decide("/api/statistics/monthly", http.MethodGet, employee); got != Allow {
		t.Fatalf("expected Allow for employee read, got %v", got)
	}
	if got := policy.Decide("/api/statistics/monthly", http.MethodGet, nil); got != DenyUnauthenticated {
		t.Fatalf("expected DenyUnauthenticated without context, got %v", got)
	}
}

func TestDecideFirstMatchWins(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/api/payrolls/list", Method: MethodAny, Roles: []auth.Role{auth.RoleHR}},
		{Pattern: "/api/payrolls/**", Method: http.MethodGet, Roles: anyStaff},
	})

	employee := &auth.SecurityContext{EmployeeNumber: "E001", Role: auth.RoleEmployee}
	if got := policy.Decide("/api/payrolls/list", http.MethodGet, employee); got != DenyForbidden {
		t.Fatalf("expected the earlier narrow rule to win, got %v", got)
	}
	if got := policy.Decide("/api/payrolls/details", http.MethodGet, employee); got != Allow {
		t.Fatalf("expected the broad rule to apply elsewhere, got %v", got)
	}
}

func TestDecideDefaultRequiresAuthentication(t *testing.T) {
	policy := NewPolicy(nil)

	if got := policy.Decide("/api/unlisted", http.MethodGet, nil); got != DenyUnauthenticated {
		t.Fatalf("expected DenyUnauthenticated for unmatched anonymous request, got %v", got)
	}
	sc := &auth.SecurityContext{EmployeeNumber: "E001", Role: auth.RoleEmployee}
	if got := policy.Decide("/api/unlisted", http.MethodGet, sc); got != Allow {
		t.Fatalf("expected Allow for unmatched authenticated request, got %v", got)
	}
}

func TestNewPolicyDeduplicates(t *testing.T) {
	rule := Rule{Pattern: "/api/employees/**", Method: http.MethodGet, Roles: anyStaff}
	policy := NewPolicy([]Rule{rule, rule, rule})

	if policy.Len() != 1 {
		t.Fatalf("expected identical rules collapsed to 1, got %d", policy.Len())
	}
}

func TestDefaultRules(t *testing.T) {
	policy := NewPolicy(DefaultRules())

	if !policy.Public("/api/login", http.MethodPost) {
		t.Fatal("login must be public")
	}
	if !policy.Public("/actuator/health", http.MethodGet) {
		t.Fatal("health check must be public")
	}
	if !policy.Public("/api/auth/request-reset", http.MethodPost) {
		t.Fatal("auth subtree must be public for POST")
	}
	if policy.Public("/api/employees", http.MethodGet) {
		t.Fatal("employee routes must not be public")
	}

	employee := &auth.SecurityContext{EmployeeNumber: "E001", Role: auth.RoleEmployee}
	if got := policy.Decide("/api/employees/E001", http.MethodGet, employee); got != Allow {
		t.Fatalf("expected employee read allowed, got %v", got)
	}
	if got := policy.Decide("/api/statistics/headcount", http.MethodGet, nil); got != DenyUnauthenticated {
		t.Fatalf("expected anonymous statistics read denied, got %v", got)
	}
	if got := policy.Decide("/api/payrolls/list", http.MethodPut, employee); got != Allow {
		t.Fatalf("expected any-method payroll list rule to allow PUT, got %v", got)
	}
}
