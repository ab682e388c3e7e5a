package employeehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"inflow/internal/domain/employee"
)

type fakeStore struct {
	employees    map[string]employee.Employee
	contracts    map[string]employee.Contract
	provisionErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: map[string]employee.Employee{},
		contracts: map[string]employee.Contract{},
	}
}

func (f *fakeStore) Provision(ctx context.Context, emp employee.Employee, passwordHash string, contracts []employee.Contract) error {
	if f.provisionErr != nil {
		return f.provisionErr
	}
	if _, exists := f.employees[emp.EmployeeNumber]; exists {
		return employee.ErrDuplicateEmployee
	}
	f.employees[emp.EmployeeNumber] = emp
	for _, contract := range contracts {
		f.contracts[contract.ID] = contract
	}
	return nil
}

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeStore) GetByNumber(ctx context.Context, employeeNumber string) (employee.Employee, error) {
	emp, ok := f.employees[employeeNumber]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return emp, nil
}

func (f *fakeStore) UpdateContact(ctx context.Context, employeeNumber string, update employee.ContactUpdate) error {
	emp, ok := f.employees[employeeNumber]
	if !ok {
		return employee.ErrNotFound
	}
	if update.Email != nil {
		emp.Email = *update.Email
	}
	if update.PhoneNumber != nil {
		emp.PhoneNumber = *update.PhoneNumber
	}
	f.employees[employeeNumber] = emp
	return nil
}

func (f *fakeStore) Resign(ctx context.Context, employeeNumber string) error {
	emp, ok := f.employees[employeeNumber]
	if !ok {
		return employee.ErrNotFound
	}
	emp.ResignationStatus = "Y"
	f.employees[employeeNumber] = emp
	return nil
}

func (f *fakeStore) ListContracts(ctx context.Context, employeeID string) ([]employee.Contract, error) {
	var out []employee.Contract
	for _, contract := range f.contracts {
		if contract.EmployeeID == employeeID {
			out = append(out, contract)
		}
	}
	return out, nil
}

func (f *fakeStore) GetContract(ctx context.Context, contractID string) (employee.Contract, error) {
	contract, ok := f.contracts[contractID]
	if !ok {
		return employee.Contract{}, employee.ErrContractNotFound
	}
	return contract, nil
}

func (f *fakeStore) RegisterContractFile(ctx context.Context, contractID, fileName, fileURL string, registeredAt time.Time) error {
	contract, ok := f.contracts[contractID]
	if !ok {
		return employee.ErrContractNotFound
	}
	contract.FileName = fileName
	contract.FileURL = fileURL
	contract.Status = employee.ContractStatusRegistered
	f.contracts[contractID] = contract
	return nil
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, phoneNumber, message string) error { return nil }

type memFiles struct {
	files map[string][]byte
}

func (m *memFiles) Save(name string, data []byte) (string, error) {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = data
	return "/files/" + name, nil
}

func (m *memFiles) Open(name string) ([]byte, error) { return m.files[name], nil }
func (m *memFiles) Delete(name string) error         { delete(m.files, name); return nil }

func newTestRouter(t *testing.T) (chi.Router, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	service := employee.NewService(store, noopSender{}, &memFiles{})
	router := chi.NewRouter()
	router.Route("/api", NewHandler(service).RegisterRoutes)
	return router, store
}

func TestRegisterBatch(t *testing.T) {
	router, store := newTestRouter(t)

	body := `[{"employeeNumber":"E001","name":"Kim","departmentCode":"DP002","positionCode":"P003","monthlySalary":3000000,"birthDate":"1990-01-01"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := store.employees["E001"]; !ok {
		t.Fatal("expected employee to be stored")
	}
	if len(store.contracts) != 2 {
		t.Fatalf("expected 2 initial contracts, got %d", len(store.contracts))
	}
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	// Missing departmentCode and a non-positive salary.
	body := `[{"employeeNumber":"E001","name":"Kim","positionCode":"P003","monthlySalary":0,"birthDate":"1990-01-01"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "validation_failed") {
		t.Fatalf("expected validation_failed, got %s", rec.Body.String())
	}
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	router, store := newTestRouter(t)
	store.employees["E001"] = employee.Employee{ID: "emp-1", EmployeeNumber: "E001"}

	body := `[{"employeeNumber":"E001","name":"Kim","departmentCode":"DP002","positionCode":"P003","monthlySalary":3000000,"birthDate":"1990-01-01"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "duplicate_employee") {
		t.Fatalf("expected duplicate_employee code, got %s", rec.Body.String())
	}
}

func TestRegisterFailureHidesStoreError(t *testing.T) {
	router, store := newTestRouter(t)
	store.provisionErr = errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")

	body := `[{"employeeNumber":"E001","name":"Kim","departmentCode":"DP002","positionCode":"P003","monthlySalary":3000000,"birthDate":"1990-01-01"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "register_failed") {
		t.Fatalf("expected register_failed code, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "SQLSTATE") || strings.Contains(rec.Body.String(), "deadlock") {
		t.Fatalf("store error leaked to client: %s", rec.Body.String())
	}
}

func TestGetUnknownEmployee(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/E404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateContact(t *testing.T) {
	router, store := newTestRouter(t)
	store.employees["E001"] = employee.Employee{ID: "emp-1", EmployeeNumber: "E001", Name: "Kim"}

	body := `{"email":"kim@inflow.run"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/employees/E001/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.employees["E001"].Email != "kim@inflow.run" {
		t.Fatalf("expected email update, got %q", store.employees["E001"].Email)
	}
}

func TestUploadContractFileRefusesReupload(t *testing.T) {
	router, store := newTestRouter(t)
	store.contracts["c-1"] = employee.Contract{
		ID:           "c-1",
		EmployeeID:   "emp-1",
		ContractType: employee.ContractTypeEmployment,
		Status:       employee.ContractStatusSigning,
	}

	upload := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "signed.pdf")
		if err != nil {
			t.Fatalf("form file error: %v", err)
		}
		if _, err := part.Write([]byte("%PDF-1.4 signed")); err != nil {
			t.Fatalf("write error: %v", err)
		}
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/employees/contracts/c-1/file", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := upload(); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first upload, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := upload(); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on re-upload, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestResign(t *testing.T) {
	router, store := newTestRouter(t)
	store.employees["E001"] = employee.Employee{ID: "emp-1", EmployeeNumber: "E001", ResignationStatus: "N"}

	req := httptest.NewRequest(http.MethodPost, "/api/employees/E001/resign", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.employees["E001"].ResignationStatus != "Y" {
		t.Fatal("expected resignation status Y")
	}

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil || !envelope.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
}
