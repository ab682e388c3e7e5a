package statistics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Headcount struct {
	DepartmentCode string `json:"departmentCode"`
	DepartmentName string `json:"departmentName"`
	Count          int    `json:"count"`
}

type OvertimeAllowance struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	TotalAmount    int64  `json:"totalAmount"`
	DepartmentCode string `json:"departmentCode"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// HeadcountByDepartment counts active employees per department.
func (s *Store) HeadcountByDepartment(ctx context.Context) ([]Headcount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.department_code, d.department_name, COUNT(e.id)
    FROM departments d
    LEFT JOIN employees e
      ON e.department_code = d.department_code AND e.resignation_status = 'N'
    GROUP BY d.department_code, d.department_name
    ORDER BY d.department_code
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Headcount
	for rows.Next() {
		var h Headcount
		if err := rows.Scan(&h.DepartmentCode, &h.DepartmentName, &h.Count); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// OvertimeByMonth sums the overtime pay lines per department for one month.
func (s *Store) OvertimeByMonth(ctx context.Context, year, month int) ([]OvertimeAllowance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT $1::int, $2::int, COALESCE(SUM(i.amount), 0), e.department_code
    FROM payroll_items i
    JOIN payrolls p ON i.payroll_id = p.id
    JOIN employees e ON e.employee_number = p.employee_number
    WHERE p.year = $1 AND p.month = $2 AND i.name = 'overtime'
    GROUP BY e.department_code
    ORDER BY e.department_code
  `, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOvertime(rows)
}

// OvertimeByYear sums the overtime pay lines per month across the company.
func (s *Store) OvertimeByYear(ctx context.Context, year int) ([]OvertimeAllowance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.year, p.month, COALESCE(SUM(i.amount), 0), ''
    FROM payroll_items i
    JOIN payrolls p ON i.payroll_id = p.id
    WHERE p.year = $1 AND i.name = 'overtime'
    GROUP BY p.year, p.month
    ORDER BY p.month
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOvertime(rows)
}

func scanOvertime(rows pgx.Rows) ([]OvertimeAllowance, error) {
	var out []OvertimeAllowance
	for rows.Next() {
		var a OvertimeAllowance
		if err := rows.Scan(&a.Year, &a.Month, &a.TotalAmount, &a.DepartmentCode); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
