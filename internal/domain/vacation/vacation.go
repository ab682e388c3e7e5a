package vacation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("vacation not found")
	ErrInvalidRange = errors.New("vacation end date before start date")
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

type Vacation struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	VacationType   string    `json:"vacationType"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Days           float64   `json:"days"`
	Reason         string    `json:"reason,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DaysBetween counts calendar days inclusive of both endpoints.
func DaysBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()/24 + 1
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, vac Vacation) (Vacation, error) {
	if vac.EndDate.Before(vac.StartDate) {
		return Vacation{}, ErrInvalidRange
	}
	vac.ID = uuid.NewString()
	vac.Status = StatusPending
	vac.Days = DaysBetween(vac.StartDate, vac.EndDate)
	_, err := s.DB.Exec(ctx, `
    INSERT INTO vacations (id, employee_number, vacation_type, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, vac.ID, vac.EmployeeNumber, vac.VacationType, vac.StartDate, vac.EndDate, vac.Days, vac.Reason, vac.Status)
	return vac, err
}

func (s *Store) ListByEmployee(ctx context.Context, employeeNumber string, limit, offset int) ([]Vacation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, vacation_type, start_date, end_date, days, COALESCE(reason,''), status, created_at
    FROM vacations
    WHERE employee_number = $1
    ORDER BY start_date DESC
    LIMIT $2 OFFSET $3
  `, employeeNumber, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vacation
	for rows.Next() {
		var vac Vacation
		if err := rows.Scan(&vac.ID, &vac.EmployeeNumber, &vac.VacationType, &vac.StartDate, &vac.EndDate,
			&vac.Days, &vac.Reason, &vac.Status, &vac.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, vac)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Vacation, error) {
	var vac Vacation
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_number, vacation_type, start_date, end_date, days, COALESCE(reason,''), status, created_at
    FROM vacations
    WHERE id = $1
  `, id).Scan(&vac.ID, &vac.EmployeeNumber, &vac.VacationType, &vac.StartDate, &vac.EndDate,
		&vac.Days, &vac.Reason, &vac.Status, &vac.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vacation{}, ErrNotFound
	}
	return vac, err
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE vacations SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id, employeeNumber string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM vacations WHERE id = $1 AND employee_number = $2 AND status = $3
  `, id, employeeNumber, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
