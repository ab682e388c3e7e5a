package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inflow/internal/auth"
)

var (
	ErrNotFound          = errors.New("employee not found")
	ErrContractNotFound  = errors.New("contract not found")
	ErrContractHasFile   = errors.New("contract already has a signed file")
	ErrDuplicateEmployee = errors.New("employee number already registered")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// FindPrincipal is the credential lookup behind authentication. Resigned
// accounts are excluded in SQL, so they surface exactly like unknown numbers.
func (s *Store) FindPrincipal(ctx context.Context, employeeNumber string) (auth.Principal, error) {
	var number, roleName string
	var hash *string
	err := s.DB.QueryRow(ctx, `
    SELECT employee_number, password_hash, employee_role
    FROM employees
    WHERE employee_number = $1 AND resignation_status = 'N'
  `, employeeNumber).Scan(&number, &hash, &roleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Principal{}, auth.ErrPrincipalNotFound
		}
		return auth.Principal{}, err
	}

	role, err := auth.ParseRole(roleName)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("principal %s: %w", employeeNumber, err)
	}

	principal := auth.Principal{EmployeeNumber: number, Role: role, PasswordHash: auth.NoLocalCredential}
	if hash != nil && *hash != "" {
		principal.PasswordHash = *hash
	}
	return principal, nil
}

// Provision inserts the employee row and its initial contracts in a single
// transaction. A failed contract insert rolls back the employee, so a hire is
// either fully provisioned or absent.
func (s *Store) Provision(ctx context.Context, emp Employee, passwordHash string, contracts []Contract) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    INSERT INTO employees (id, employee_number, name, email, phone_number, password_hash, employee_role,
                           department_code, position_code, monthly_salary, annual_salary, birth_date,
                           join_date, resignation_status, profile_img_url)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, emp.ID, emp.EmployeeNumber, emp.Name, emp.Email, emp.PhoneNumber, passwordHash, emp.Role,
		emp.DepartmentCode, emp.PositionCode, emp.MonthlySalary, emp.AnnualSalary, emp.BirthDate,
		emp.JoinDate, emp.ResignationStatus, emp.ProfileImgURL)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmployee
		}
		return err
	}

	for _, contract := range contracts {
		if _, err := tx.Exec(ctx, `
      INSERT INTO contracts (id, employee_id, contract_type, contract_status, consent_status)
      VALUES ($1,$2,$3,$4,$5)
    `, contract.ID, contract.EmployeeID, contract.ContractType, contract.Status, contract.ConsentStatus); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, name, COALESCE(email,''), COALESCE(phone_number,''), employee_role,
           department_code, position_code, monthly_salary, annual_salary, birth_date, join_date,
           resignation_status, COALESCE(profile_img_url,''), created_at
    FROM employees
    ORDER BY employee_number
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetByNumber(ctx context.Context, employeeNumber string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_number, name, COALESCE(email,''), COALESCE(phone_number,''), employee_role,
           department_code, position_code, monthly_salary, annual_salary, birth_date, join_date,
           resignation_status, COALESCE(profile_img_url,''), created_at
    FROM employees
    WHERE employee_number = $1
  `, employeeNumber)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var roleName string
	err := row.Scan(&emp.ID, &emp.EmployeeNumber, &emp.Name, &emp.Email, &emp.PhoneNumber, &roleName,
		&emp.DepartmentCode, &emp.PositionCode, &emp.MonthlySalary, &emp.AnnualSalary, &emp.BirthDate,
		&emp.JoinDate, &emp.ResignationStatus, &emp.ProfileImgURL, &emp.CreatedAt)
	if err != nil {
		return Employee{}, err
	}
	emp.Role = auth.Role(roleName)
	return emp, nil
}

func (s *Store) UpdateContact(ctx context.Context, employeeNumber string, update ContactUpdate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET email = COALESCE($1, email),
        phone_number = COALESCE($2, phone_number),
        street_address = COALESCE($3, street_address),
        detailed_address = COALESCE($4, detailed_address),
        profile_img_url = COALESCE($5, profile_img_url),
        updated_at = now()
    WHERE employee_number = $6
  `, update.Email, update.PhoneNumber, update.StreetAddress, update.DetailedAddress, update.ProfileImgURL, employeeNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, employeeNumber, hash string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET password_hash = $1, updated_at = now() WHERE employee_number = $2", hash, employeeNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Resign(ctx context.Context, employeeNumber string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET resignation_status = 'Y', updated_at = now() WHERE employee_number = $1", employeeNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListContracts(ctx context.Context, employeeID string) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, contract_type, COALESCE(file_name,''), COALESCE(file_url,''), contract_status, consent_status, registered_at
    FROM contracts
    WHERE employee_id = $1
    ORDER BY contract_type
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var contract Contract
		if err := rows.Scan(&contract.ID, &contract.EmployeeID, &contract.ContractType, &contract.FileName,
			&contract.FileURL, &contract.Status, &contract.ConsentStatus, &contract.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, contract)
	}
	return out, rows.Err()
}

func (s *Store) GetContract(ctx context.Context, contractID string) (Contract, error) {
	var contract Contract
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, contract_type, COALESCE(file_name,''), COALESCE(file_url,''), contract_status, consent_status, registered_at
    FROM contracts
    WHERE id = $1
  `, contractID).Scan(&contract.ID, &contract.EmployeeID, &contract.ContractType, &contract.FileName,
		&contract.FileURL, &contract.Status, &contract.ConsentStatus, &contract.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrContractNotFound
	}
	return contract, err
}

func (s *Store) RegisterContractFile(ctx context.Context, contractID, fileName, fileURL string, registeredAt time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE contracts
    SET file_name = $1, file_url = $2, contract_status = $3, consent_status = 'Y', registered_at = $4
    WHERE id = $5
  `, fileName, fileURL, ContractStatusRegistered, registeredAt, contractID)
	return err
}

func (s *Store) CreatePasswordReset(ctx context.Context, employeeNumber, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO password_resets (employee_number, token, expires_at)
    VALUES ($1,$2,$3)
  `, employeeNumber, tokenHash, expires)
	return err
}

func (s *Store) PasswordResetEmployeeNumber(ctx context.Context, tokenHash string) (string, error) {
	var employeeNumber string
	err := s.DB.QueryRow(ctx, `
    SELECT employee_number
    FROM password_resets
    WHERE token = $1 AND expires_at > now() AND used_at IS NULL
  `, tokenHash).Scan(&employeeNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return employeeNumber, err
}

func (s *Store) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE password_resets SET used_at = now() WHERE token = $1", tokenHash)
	return err
}

func (s *Store) PhoneNumber(ctx context.Context, employeeNumber string) (string, error) {
	var phone *string
	err := s.DB.QueryRow(ctx, "SELECT phone_number FROM employees WHERE employee_number = $1", employeeNumber).Scan(&phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if phone == nil {
		return "", nil
	}
	return *phone, nil
}
