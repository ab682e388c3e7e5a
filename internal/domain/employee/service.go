package employee

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"inflow/internal/auth"
	"inflow/internal/platform/sms"
	"inflow/internal/platform/storage"
)

type StoreAPI interface {
	Provision(ctx context.Context, emp Employee, passwordHash string, contracts []Contract) error
	List(ctx context.Context, limit, offset int) ([]Employee, error)
	GetByNumber(ctx context.Context, employeeNumber string) (Employee, error)
	UpdateContact(ctx context.Context, employeeNumber string, update ContactUpdate) error
	Resign(ctx context.Context, employeeNumber string) error
	ListContracts(ctx context.Context, employeeID string) ([]Contract, error)
	GetContract(ctx context.Context, contractID string) (Contract, error)
	RegisterContractFile(ctx context.Context, contractID, fileName, fileURL string, registeredAt time.Time) error
}

type Service struct {
	Store StoreAPI
	SMS   sms.Sender
	Files storage.Store
}

func NewService(store StoreAPI, sender sms.Sender, files storage.Store) *Service {
	return &Service{Store: store, SMS: sender, Files: files}
}

// Register provisions a batch of employees: initial password from the
// documented pattern, role derived from org placement, annual salary from the
// monthly figure, two contracts awaiting signature, and a welcome SMS.
func (s *Service) Register(ctx context.Context, inputs []RegisterInput) ([]Employee, error) {
	registered := make([]Employee, 0, len(inputs))
	for _, input := range inputs {
		birthDate, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("employee %s: invalid birth date %q", input.EmployeeNumber, input.BirthDate)
		}

		hash, err := auth.HashPassword(InitialPassword(input.EmployeeNumber, input.Name, birthDate))
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", input.EmployeeNumber, err)
		}

		emp := Employee{
			ID:                uuid.NewString(),
			EmployeeNumber:    input.EmployeeNumber,
			Name:              input.Name,
			Email:             input.Email,
			PhoneNumber:       input.PhoneNumber,
			Role:              AssignRole(input.DepartmentCode, input.PositionCode),
			DepartmentCode:    input.DepartmentCode,
			PositionCode:      input.PositionCode,
			MonthlySalary:     input.MonthlySalary,
			AnnualSalary:      AnnualSalary(input.MonthlySalary),
			BirthDate:         birthDate,
			JoinDate:          time.Now().UTC().Truncate(24 * time.Hour),
			ResignationStatus: "N",
		}

		contracts := initialContracts(emp.ID)
		for i := range contracts {
			contracts[i].ID = uuid.NewString()
		}

		// Employee and contracts commit together or not at all.
		if err := s.Store.Provision(ctx, emp, hash, contracts); err != nil {
			return nil, fmt.Errorf("employee %s: %w", input.EmployeeNumber, err)
		}

		if err := s.SMS.Send(ctx, emp.PhoneNumber, WelcomeMessage(emp.Name, emp.EmployeeNumber)); err != nil {
			slog.Warn("welcome sms failed", "employeeNumber", emp.EmployeeNumber, "err", err)
		}

		registered = append(registered, emp)
	}
	return registered, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	return s.Store.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, employeeNumber string) (Employee, error) {
	return s.Store.GetByNumber(ctx, employeeNumber)
}

func (s *Service) UpdateContact(ctx context.Context, employeeNumber string, update ContactUpdate) (Employee, error) {
	if err := s.Store.UpdateContact(ctx, employeeNumber, update); err != nil {
		return Employee{}, err
	}
	return s.Store.GetByNumber(ctx, employeeNumber)
}

func (s *Service) Resign(ctx context.Context, employeeNumber string) error {
	return s.Store.Resign(ctx, employeeNumber)
}

func (s *Service) Contracts(ctx context.Context, employeeNumber string) ([]Contract, error) {
	emp, err := s.Store.GetByNumber(ctx, employeeNumber)
	if err != nil {
		return nil, err
	}
	return s.Store.ListContracts(ctx, emp.ID)
}

// RegisterSignedContract attaches the signed document to a pending contract.
// A contract that already carries a file is immutable.
func (s *Service) RegisterSignedContract(ctx context.Context, contractID, originalName string, data []byte) (Contract, error) {
	contract, err := s.Store.GetContract(ctx, contractID)
	if err != nil {
		return Contract{}, err
	}
	if contract.FileURL != "" {
		return Contract{}, ErrContractHasFile
	}

	fileName := fmt.Sprintf("%s_%s%s", contract.ContractType, contract.EmployeeID, filepath.Ext(originalName))
	fileURL, err := s.Files.Save(fileName, data)
	if err != nil {
		return Contract{}, fmt.Errorf("store contract file: %w", err)
	}

	registeredAt := time.Now().UTC().Truncate(time.Second)
	if err := s.Store.RegisterContractFile(ctx, contractID, fileName, fileURL, registeredAt); err != nil {
		return Contract{}, err
	}

	contract.FileName = fileName
	contract.FileURL = fileURL
	contract.Status = ContractStatusRegistered
	contract.ConsentStatus = "Y"
	contract.RegisteredAt = &registeredAt
	return contract, nil
}
