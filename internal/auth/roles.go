package auth

import "fmt"

// Role is the single access role granted to a principal. Every employee
// carries exactly one role; there is no multi-role assignment.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}
