package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inflow/internal/auth"
)

type fakeStore struct {
	principals map[string]auth.Principal
	phones     map[string]string
	resets     map[string]string
	used       map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		principals: map[string]auth.Principal{},
		phones:     map[string]string{},
		resets:     map[string]string{},
		used:       map[string]bool{},
	}
}

func (f *fakeStore) FindPrincipal(ctx context.Context, employeeNumber string) (auth.Principal, error) {
	principal, ok := f.principals[employeeNumber]
	if !ok {
		return auth.Principal{}, auth.ErrPrincipalNotFound
	}
	return principal, nil
}

func (f *fakeStore) UpdatePassword(ctx context.Context, employeeNumber, hash string) error {
	principal, ok := f.principals[employeeNumber]
	if !ok {
		return errors.New("no such employee")
	}
	principal.PasswordHash = hash
	f.principals[employeeNumber] = principal
	return nil
}

func (f *fakeStore) CreatePasswordReset(ctx context.Context, employeeNumber, tokenHash string, expires time.Time) error {
	f.resets[tokenHash] = employeeNumber
	return nil
}

func (f *fakeStore) PasswordResetEmployeeNumber(ctx context.Context, tokenHash string) (string, error) {
	if f.used[tokenHash] {
		return "", errors.New("token used")
	}
	employeeNumber, ok := f.resets[tokenHash]
	if !ok {
		return "", errors.New("no such token")
	}
	return employeeNumber, nil
}

func (f *fakeStore) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	f.used[tokenHash] = true
	return nil
}

func (f *fakeStore) PhoneNumber(ctx context.Context, employeeNumber string) (string, error) {
	return f.phones[employeeNumber], nil
}

type recordingSender struct {
	messages []string
}

func (r *recordingSender) Send(ctx context.Context, phoneNumber, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeStore, *recordingSender) {
	t.Helper()
	store := newFakeStore()
	hash, err := auth.HashPassword("E001!Kim@19900101")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	store.principals["E001"] = auth.Principal{EmployeeNumber: "E001", PasswordHash: hash, Role: auth.RoleHR}
	store.phones["E001"] = "010-1234-5678"
	sender := &recordingSender{}
	return NewHandler(auth.NewCodec("test-secret", time.Hour), store, sender), store, sender
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginIssuesToken(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleLogin, "/api/login", map[string]string{
		"employeeNumber": "E001",
		"password":       "E001!Kim@19900101",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	authHeader := rec.Header().Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		t.Fatalf("expected bearer Authorization header, got %q", authHeader)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token          string `json:"token"`
			EmployeeNumber string `json:"employeeNumber"`
			Role           string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Data.Role != "HR" || envelope.Data.EmployeeNumber != "E001" {
		t.Fatalf("unexpected login data: %+v", envelope.Data)
	}

	claims, err := handler.Codec.Verify(envelope.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "E001" {
		t.Fatalf("expected subject E001, got %q", claims.Subject)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleLogin, "/api/login", map[string]string{
		"employeeNumber": "E001",
		"password":       "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_credentials") {
		t.Fatalf("expected invalid_credentials, got %s", rec.Body.String())
	}
}

func TestLoginUnknownEmployeeMatchesWrongPassword(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleLogin, "/api/login", map[string]string{
		"employeeNumber": "E999",
		"password":       "whatever",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	// Same error body as a wrong password; the response must not reveal
	// whether the account exists.
	if !strings.Contains(rec.Body.String(), "invalid_credentials") {
		t.Fatalf("expected invalid_credentials, got %s", rec.Body.String())
	}
}

func TestPasswordResetFlow(t *testing.T) {
	handler, _, sender := newTestHandler(t)

	rec := postJSON(t, handler.HandleRequestReset, "/api/auth/request-reset", map[string]string{
		"employeeNumber": "E001",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected one sms, got %d", len(sender.messages))
	}
	token := strings.TrimPrefix(sender.messages[0], "Password reset code: ")

	rec = postJSON(t, handler.HandleResetPassword, "/api/auth/reset", map[string]string{
		"token":       token,
		"newPassword": "s3cret-new",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, handler.HandleLogin, "/api/login", map[string]string{
		"employeeNumber": "E001",
		"password":       "s3cret-new",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login with new password to succeed, got %d", rec.Code)
	}

	// The token is single use.
	rec = postJSON(t, handler.HandleResetPassword, "/api/auth/reset", map[string]string{
		"token":       token,
		"newPassword": "another",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected reused token to fail, got %d", rec.Code)
	}
}

func TestRequestResetHidesUnknownEmployees(t *testing.T) {
	handler, store, sender := newTestHandler(t)

	rec := postJSON(t, handler.HandleRequestReset, "/api/auth/request-reset", map[string]string{
		"employeeNumber": "E999",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown employee, got %d", rec.Code)
	}
	if len(sender.messages) != 0 || len(store.resets) != 0 {
		t.Fatal("expected no reset state for unknown employee")
	}
}
