package auth

import "golang.org/x/crypto/bcrypt"

// NoLocalCredential is stored in place of a hash for accounts provisioned
// without a local password. It is not a valid bcrypt hash, so comparison
// against it can never succeed.
const NoLocalCredential = "{nocred}"

// dummyHash keeps the bcrypt cost of a failed lookup in line with a real
// comparison so login timing does not reveal whether the account exists.
var dummyHash = func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("inflow-dummy-credential"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
}()

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	if hash == "" || hash == NoLocalCredential {
		BurnComparison(password)
		return ErrSecretMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrSecretMismatch
	}
	return nil
}

// BurnComparison performs a throwaway bcrypt comparison. The login handler
// calls it when the principal lookup misses, so both failure causes spend
// roughly the same time before answering.
func BurnComparison(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
