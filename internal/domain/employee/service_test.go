package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"inflow/internal/auth"
)

type fakeStore struct {
	employees map[string]Employee
	hashes    map[string]string
	contracts map[string]Contract
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: map[string]Employee{},
		hashes:    map[string]string{},
		contracts: map[string]Contract{},
	}
}

func (f *fakeStore) Provision(ctx context.Context, emp Employee, passwordHash string, contracts []Contract) error {
	if _, ok := f.employees[emp.EmployeeNumber]; ok {
		return ErrDuplicateEmployee
	}
	for _, contract := range contracts {
		if contract.ID == "" {
			return errors.New("contract without id")
		}
	}
	f.employees[emp.EmployeeNumber] = emp
	f.hashes[emp.EmployeeNumber] = passwordHash
	for _, contract := range contracts {
		f.contracts[contract.ID] = contract
	}
	return nil
}

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	out := make([]Employee, 0, len(f.employees))
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeStore) GetByNumber(ctx context.Context, employeeNumber string) (Employee, error) {
	emp, ok := f.employees[employeeNumber]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (f *fakeStore) UpdateContact(ctx context.Context, employeeNumber string, update ContactUpdate) error {
	emp, ok := f.employees[employeeNumber]
	if !ok {
		return ErrNotFound
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
		return ErrNotFound
	}
	emp.ResignationStatus = "Y"
	f.employees[employeeNumber] = emp
	return nil
}

func (f *fakeStore) ListContracts(ctx context.Context, employeeID string) ([]Contract, error) {
	var out []Contract
	for _, contract := range f.contracts {
		if contract.EmployeeID == employeeID {
			out = append(out, contract)
		}
	}
	return out, nil
}

func (f *fakeStore) GetContract(ctx context.Context, contractID string) (Contract, error) {
	contract, ok := f.contracts[contractID]
	if !ok {
		return Contract{}, ErrContractNotFound
	}
	return contract, nil
}

func (f *fakeStore) RegisterContractFile(ctx context.Context, contractID, fileName, fileURL string, registeredAt time.Time) error {
	contract, ok := f.contracts[contractID]
	if !ok {
		return ErrContractNotFound
	}
	contract.FileName = fileName
	contract.FileURL = fileURL
	contract.Status = ContractStatusRegistered
	contract.ConsentStatus = "Y"
	contract.RegisteredAt = &registeredAt
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

func (m *memFiles) Open(name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (m *memFiles) Delete(name string) error {
	delete(m.files, name)
	return nil
}

func TestRegisterProvisionsEmployee(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, noopSender{}, &memFiles{})

	registered, err := svc.Register(context.Background(), []RegisterInput{{
		EmployeeNumber: "E001",
		Name:           "Kim",
		DepartmentCode: "DP002",
		PositionCode:   "P002",
		MonthlySalary:  3_000_000,
		BirthDate:      "1990-01-01",
		PhoneNumber:    "010-1234-5678",
	}})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if len(registered) != 1 {
		t.Fatalf("expected 1 registered employee, got %d", len(registered))
	}

	emp := registered[0]
	if emp.Role != auth.RoleHR {
		t.Fatalf("expected HR role for DP002, got %v", emp.Role)
	}
	if emp.AnnualSalary != 36_000_000 {
		t.Fatalf("expected annual salary 36000000, got %d", emp.AnnualSalary)
	}
	if emp.ResignationStatus != "N" {
		t.Fatalf("expected resignation status N, got %q", emp.ResignationStatus)
	}

	hash := store.hashes["E001"]
	if err := auth.CheckPassword(hash, "E001!Kim@19900101"); err != nil {
		t.Fatalf("initial password must verify against stored hash: %v", err)
	}

	if len(store.contracts) != 2 {
		t.Fatalf("expected 2 initial contracts, got %d", len(store.contracts))
	}
}

func TestRegisterDuplicateNumberKeepsEarlierHiresIntact(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, noopSender{}, &memFiles{})

	_, err := svc.Register(context.Background(), []RegisterInput{
		{EmployeeNumber: "E001", Name: "Kim", DepartmentCode: "DP001", PositionCode: "P002", MonthlySalary: 3_000_000, BirthDate: "1990-01-01"},
		{EmployeeNumber: "E001", Name: "Lee", DepartmentCode: "DP001", PositionCode: "P002", MonthlySalary: 3_000_000, BirthDate: "1991-02-02"},
	})
	if !errors.Is(err, ErrDuplicateEmployee) {
		t.Fatalf("expected ErrDuplicateEmployee, got %v", err)
	}

	// The first hire went through a full provisioning: employee plus both
	// contracts. The rejected duplicate left nothing behind.
	if len(store.employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(store.employees))
	}
	if store.employees["E001"].Name != "Kim" {
		t.Fatalf("expected first hire to survive, got %q", store.employees["E001"].Name)
	}
	if len(store.contracts) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(store.contracts))
	}
}

func TestRegisterSignedContractRefusesReupload(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, noopSender{}, &memFiles{})

	store.contracts["c1"] = Contract{ID: "c1", EmployeeID: "emp-1", ContractType: ContractTypeEmployment, Status: ContractStatusSigning, ConsentStatus: "N"}

	contract, err := svc.RegisterSignedContract(context.Background(), "c1", "signed.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("first upload error: %v", err)
	}
	if contract.Status != ContractStatusRegistered || contract.ConsentStatus != "Y" {
		t.Fatalf("unexpected contract state: %+v", contract)
	}
	if contract.FileName != "EMPLOYMENT_emp-1.pdf" {
		t.Fatalf("unexpected file name: %q", contract.FileName)
	}

	if _, err := svc.RegisterSignedContract(context.Background(), "c1", "again.pdf", []byte("pdf")); !errors.Is(err, ErrContractHasFile) {
		t.Fatalf("expected ErrContractHasFile, got %v", err)
	}
}
