package department

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("department not found")
	ErrHasMembers = errors.New("department still has members")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department_code, department_name, COALESCE(parent_department_code,''), created_at
    FROM departments
    ORDER BY department_code
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.Code, &dept.Name, &dept.ParentCode, &dept.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, dept Department) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO departments (department_code, department_name, parent_department_code)
    VALUES ($1, $2, NULLIF($3, ''))
  `, dept.Code, dept.Name, dept.ParentCode)
	return err
}

func (s *Store) Update(ctx context.Context, code string, name, parentCode *string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET department_name = COALESCE($1, department_name),
        parent_department_code = COALESCE(NULLIF($2, ''), parent_department_code)
    WHERE department_code = $3
  `, name, parentCode, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, code string) error {
	var members int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE department_code = $1 AND resignation_status = 'N'
  `, code).Scan(&members); err != nil {
		return err
	}
	if members > 0 {
		return ErrHasMembers
	}

	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE department_code = $1", code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchMembers finds employees by name, employee number, department name or
// phone number, the four keywords the member-search screen accepts.
func (s *Store) SearchMembers(ctx context.Context, keyword string, limit, offset int) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.employee_number, e.name, e.department_code, d.department_name, e.position_code, COALESCE(e.phone_number,'')
    FROM employees e
    JOIN departments d ON e.department_code = d.department_code
    WHERE e.resignation_status = 'N'
      AND ($1 = '' OR e.name ILIKE '%'||$1||'%' OR e.employee_number ILIKE '%'||$1||'%'
           OR d.department_name ILIKE '%'||$1||'%' OR e.phone_number ILIKE '%'||$1||'%')
    ORDER BY e.employee_number
    LIMIT $2 OFFSET $3
  `, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.EmployeeNumber, &member.Name, &member.DepartmentCode,
			&member.DepartmentName, &member.PositionCode, &member.PhoneNumber); err != nil {
			return nil, err
		}
		out = append(out, member)
	}
	return out, rows.Err()
}

func (s *Store) MembersOf(ctx context.Context, departmentCode string) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.employee_number, e.name, e.department_code, d.department_name, e.position_code, COALESCE(e.phone_number,'')
    FROM employees e
    JOIN departments d ON e.department_code = d.department_code
    WHERE e.department_code = $1 AND e.resignation_status = 'N'
    ORDER BY e.employee_number
  `, departmentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.EmployeeNumber, &member.Name, &member.DepartmentCode,
			&member.DepartmentName, &member.PositionCode, &member.PhoneNumber); err != nil {
			return nil, err
		}
		out = append(out, member)
	}
	return out, rows.Err()
}
