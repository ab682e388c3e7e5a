package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("payroll not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetByMonth(ctx context.Context, employeeNumber string, year, month int) (Payroll, error) {
	var p Payroll
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_number, year, month, base_salary, gross, non_taxable, deductions, net, created_at
    FROM payrolls
    WHERE employee_number = $1 AND year = $2 AND month = $3
  `, employeeNumber, year, month).Scan(&p.ID, &p.EmployeeNumber, &p.Year, &p.Month,
		&p.BaseSalary, &p.Gross, &p.NonTaxable, &p.Deductions, &p.Net, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	return p, err
}

func (s *Store) ListByYear(ctx context.Context, employeeNumber string, year int) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, year, month, base_salary, gross, non_taxable, deductions, net, created_at
    FROM payrolls
    WHERE employee_number = $1 AND year = $2
    ORDER BY month
  `, employeeNumber, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayrolls(rows)
}

func (s *Store) ListAll(ctx context.Context, employeeNumber string) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, year, month, base_salary, gross, non_taxable, deductions, net, created_at
    FROM payrolls
    WHERE employee_number = $1
    ORDER BY year DESC, month DESC
  `, employeeNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayrolls(rows)
}

func (s *Store) Items(ctx context.Context, payrollID string) ([]Item, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payroll_id, name, item_type, amount, taxable
    FROM payroll_items
    WHERE payroll_id = $1
    ORDER BY item_type, name
  `, payrollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.PayrollID, &item.Name, &item.ItemType, &item.Amount, &item.Taxable); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) Create(ctx context.Context, p Payroll, lines []InputLine) (Payroll, error) {
	p.ID = uuid.NewString()
	p.Gross, p.NonTaxable, p.Deductions, p.Net = Compute(p.BaseSalary, lines)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Payroll{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
    INSERT INTO payrolls (id, employee_number, year, month, base_salary, gross, non_taxable, deductions, net)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING created_at
  `, p.ID, p.EmployeeNumber, p.Year, p.Month, p.BaseSalary, p.Gross, p.NonTaxable, p.Deductions, p.Net).Scan(&p.CreatedAt)
	if err != nil {
		return Payroll{}, err
	}

	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_items (id, payroll_id, name, item_type, amount, taxable)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, uuid.NewString(), p.ID, line.Name, line.Type, line.Amount, line.Taxable); err != nil {
			return Payroll{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Payroll{}, err
	}
	return p, nil
}

func (s *Store) IrregularAllowances(ctx context.Context, employeeNumber string, year int) ([]IrregularAllowance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, name, amount, paid_at
    FROM irregular_allowances
    WHERE employee_number = $1 AND EXTRACT(YEAR FROM paid_at) = $2
    ORDER BY paid_at DESC
  `, employeeNumber, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IrregularAllowance
	for rows.Next() {
		var a IrregularAllowance
		if err := rows.Scan(&a.ID, &a.EmployeeNumber, &a.Name, &a.Amount, &a.PaidAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateIrregularAllowance(ctx context.Context, a IrregularAllowance) (IrregularAllowance, error) {
	a.ID = uuid.NewString()
	if a.PaidAt.IsZero() {
		a.PaidAt = time.Now()
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO irregular_allowances (id, employee_number, name, amount, paid_at)
    VALUES ($1,$2,$3,$4,$5)
  `, a.ID, a.EmployeeNumber, a.Name, a.Amount, a.PaidAt)
	return a, err
}

// SeveranceBasis returns the inputs the estimate needs: the average net of the
// last three recorded months and the join date.
func (s *Store) SeveranceBasis(ctx context.Context, employeeNumber string) (averageMonthly int64, joinDate time.Time, err error) {
	err = s.DB.QueryRow(ctx, `
    SELECT COALESCE((
      SELECT AVG(sub.gross)::bigint FROM (
        SELECT gross FROM payrolls
        WHERE employee_number = $1
        ORDER BY year DESC, month DESC
        LIMIT 3
      ) sub
    ), e.monthly_salary), e.join_date
    FROM employees e
    WHERE e.employee_number = $1
  `, employeeNumber).Scan(&averageMonthly, &joinDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, time.Time{}, ErrNotFound
	}
	return averageMonthly, joinDate, err
}

func (s *Store) employeeName(ctx context.Context, employeeNumber string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx,
		"SELECT name FROM employees WHERE employee_number = $1", employeeNumber).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

func scanPayrolls(rows pgx.Rows) ([]Payroll, error) {
	var out []Payroll
	for rows.Next() {
		var p Payroll
		if err := rows.Scan(&p.ID, &p.EmployeeNumber, &p.Year, &p.Month,
			&p.BaseSalary, &p.Gross, &p.NonTaxable, &p.Deductions, &p.Net, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
