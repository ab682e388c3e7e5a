package employee

import (
	"testing"
	"time"

	"inflow/internal/auth"
)

func TestInitialPassword(t *testing.T) {
	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	got := InitialPassword("E001", "Kim", birth)
	if got != "E001!Kim@19900101" {
		t.Fatalf("unexpected initial password: %q", got)
	}
}

func TestAssignRole(t *testing.T) {
	tests := []struct {
		name           string
		departmentCode string
		positionCode   string
		want           auth.Role
	}{
		{"hr department", "DP002", "P001", auth.RoleHR},
		{"hr department outranks manager position", "DP002", "P005", auth.RoleHR},
		{"manager position", "DP003", "P005", auth.RoleManager},
		{"plain employee", "DP003", "P002", auth.RoleEmployee},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AssignRole(tc.departmentCode, tc.positionCode); got != tc.want {
				t.Fatalf("AssignRole(%q, %q) = %v, want %v", tc.departmentCode, tc.positionCode, got, tc.want)
			}
		})
	}
}

func TestAnnualSalary(t *testing.T) {
	if got := AnnualSalary(3_000_000); got != 36_000_000 {
		t.Fatalf("expected annual salary 36000000, got %d", got)
	}
}

func TestInitialContracts(t *testing.T) {
	contracts := initialContracts("emp-1")
	if len(contracts) != 2 {
		t.Fatalf("expected 2 initial contracts, got %d", len(contracts))
	}
	types := map[string]bool{}
	for _, contract := range contracts {
		types[contract.ContractType] = true
		if contract.Status != ContractStatusSigning {
			t.Fatalf("expected SIGNING status, got %q", contract.Status)
		}
		if contract.ConsentStatus != "N" {
			t.Fatalf("expected consent N, got %q", contract.ConsentStatus)
		}
		if contract.FileURL != "" {
			t.Fatal("initial contract must have no file")
		}
	}
	if !types[ContractTypeEmployment] || !types[ContractTypeSecurity] {
		t.Fatalf("expected EMPLOYMENT and SECURITY contracts, got %v", types)
	}
}
