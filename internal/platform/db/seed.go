package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inflow/internal/auth"
	"inflow/internal/platform/config"
)

var seedDepartments = []struct {
	Code string
	Name string
}{
	{"DP001", "Management"},
	{"DP002", "Human Resources"},
	{"DP003", "Engineering"},
	{"DP004", "Sales"},
}

// Seed provisions the base departments and, when configured, a bootstrap
// admin account so a fresh database is immediately usable.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	for _, dept := range seedDepartments {
		if _, err := pool.Exec(ctx, `
      INSERT INTO departments (department_code, department_name)
      VALUES ($1, $2)
      ON CONFLICT (department_code) DO NOTHING
    `, dept.Code, dept.Name); err != nil {
			return fmt.Errorf("seed department %s: %w", dept.Code, err)
		}
	}

	adminNumber := strings.TrimSpace(cfg.SeedAdminNumber)
	if adminNumber == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE employee_number = $1", adminNumber).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash := auth.NoLocalCredential
	if cfg.SeedAdminPassword != "" {
		hashed, err := auth.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			return err
		}
		hash = hashed
	}

	_, err := pool.Exec(ctx, `
    INSERT INTO employees (id, employee_number, name, password_hash, employee_role, department_code, position_code, monthly_salary, annual_salary, birth_date, join_date, resignation_status)
    VALUES ($1, $2, $3, $4, $5, 'DP001', 'P001', 0, 0, '1970-01-01', now(), 'N')
  `, uuid.NewString(), adminNumber, cfg.SeedAdminName, hash, auth.RoleAdmin)
	return err
}
