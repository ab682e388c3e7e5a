package auth

import "context"

// Principal is the credential view of an employee record: just enough to
// authenticate and to name the granted role.
type Principal struct {
	EmployeeNumber string
	PasswordHash   string
	Role           Role
}

// PrincipalLoader resolves an employee number to its credential record.
// Implementations must report resigned accounts as ErrPrincipalNotFound and
// substitute NoLocalCredential when no password hash is stored.
type PrincipalLoader interface {
	FindPrincipal(ctx context.Context, employeeNumber string) (Principal, error)
}

// SecurityContext is the per-request identity attached by the authentication
// filter and consumed by the authorization policy. It lives only for the
// duration of one request.
type SecurityContext struct {
	EmployeeNumber string
	Role           Role
}
