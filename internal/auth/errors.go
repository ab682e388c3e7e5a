package auth

import "errors"

var (
	// ErrPrincipalNotFound covers unknown employee numbers and resigned
	// accounts alike; callers must not distinguish the two.
	ErrPrincipalNotFound = errors.New("principal not found")

	ErrSecretMismatch = errors.New("secret mismatch")

	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
)
