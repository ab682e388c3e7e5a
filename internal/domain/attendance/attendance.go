package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("attendance request not found")

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Request struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	RequestType    string    `json:"requestType"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
	Reason         string    `json:"reason,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, req Request) (Request, error) {
	req.ID = uuid.NewString()
	req.Status = StatusPending
	_, err := s.DB.Exec(ctx, `
    INSERT INTO attendance_requests (id, employee_number, request_type, start_at, end_at, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, req.ID, req.EmployeeNumber, req.RequestType, req.StartAt, req.EndAt, req.Reason, req.Status)
	return req, err
}

func (s *Store) ListByEmployee(ctx context.Context, employeeNumber string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, request_type, start_at, end_at, COALESCE(reason,''), status, created_at
    FROM attendance_requests
    WHERE employee_number = $1
    ORDER BY start_at DESC
    LIMIT $2 OFFSET $3
  `, employeeNumber, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeNumber, &req.RequestType, &req.StartAt, &req.EndAt,
			&req.Reason, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	var req Request
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_number, request_type, start_at, end_at, COALESCE(reason,''), status, created_at
    FROM attendance_requests
    WHERE id = $1
  `, id).Scan(&req.ID, &req.EmployeeNumber, &req.RequestType, &req.StartAt, &req.EndAt,
		&req.Reason, &req.Status, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE attendance_requests SET status = $1 WHERE id = $2", status, id)
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
    DELETE FROM attendance_requests WHERE id = $1 AND employee_number = $2 AND status = $3
  `, id, employeeNumber, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
