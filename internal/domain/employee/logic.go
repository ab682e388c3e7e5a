package employee

import (
	"fmt"
	"time"

	"inflow/internal/auth"
)

const (
	hrDepartmentCode    = "DP002"
	managerPositionCode = "P005"
)

// InitialPassword builds the provisioning password handed to a new employee:
// employee number, name and birth date in the documented
// "number!name@yyyymmdd" shape. Employees are told to change it after first
// login.
func InitialPassword(employeeNumber, name string, birthDate time.Time) string {
	return fmt.Sprintf("%s!%s@%s", employeeNumber, name, birthDate.Format("20060102"))
}

// AssignRole derives the access role from org placement: the HR department
// gets the HR role, department-head positions get MANAGER, everyone else is a
// plain EMPLOYEE. ADMIN is never assigned here; it is provisioned explicitly.
func AssignRole(departmentCode, positionCode string) auth.Role {
	switch {
	case departmentCode == hrDepartmentCode:
		return auth.RoleHR
	case positionCode == managerPositionCode:
		return auth.RoleManager
	default:
		return auth.RoleEmployee
	}
}

func AnnualSalary(monthlySalary int64) int64 {
	return monthlySalary * 12
}

func WelcomeMessage(name, employeeNumber string) string {
	return fmt.Sprintf(
		"[InFlow] Welcome aboard, %s! Your employee number is %q. "+
			"Sign in with the initial password in the form number!name@birthdate and change it right away.",
		name, employeeNumber,
	)
}

// initialContracts returns the two contracts every new employee starts with,
// awaiting signature and consent.
func initialContracts(employeeID string) []Contract {
	contracts := make([]Contract, 0, 2)
	for _, contractType := range []string{ContractTypeEmployment, ContractTypeSecurity} {
		contracts = append(contracts, Contract{
			EmployeeID:    employeeID,
			ContractType:  contractType,
			Status:        ContractStatusSigning,
			ConsentStatus: "N",
		})
	}
	return contracts
}
