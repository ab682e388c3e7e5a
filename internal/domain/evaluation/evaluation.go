package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTaskTypeNotFound = errors.New("task type not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
)

type TaskType struct {
	ID        string    `json:"id"`
	Name      string    `json:"taskTypeName"`
	CreatedAt time.Time `json:"createdAt"`
}

type Feedback struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	ReviewerNumber string    `json:"reviewerNumber"`
	Content        string    `json:"content"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTaskTypes(ctx context.Context) ([]TaskType, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, task_type_name, created_at FROM task_types ORDER BY task_type_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskType
	for rows.Next() {
		var taskType TaskType
		if err := rows.Scan(&taskType.ID, &taskType.Name, &taskType.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, taskType)
	}
	return out, rows.Err()
}

func (s *Store) CreateTaskType(ctx context.Context, name string) (TaskType, error) {
	taskType := TaskType{ID: uuid.NewString(), Name: name}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO task_types (id, task_type_name) VALUES ($1, $2) RETURNING created_at
  `, taskType.ID, taskType.Name).Scan(&taskType.CreatedAt)
	return taskType, err
}

func (s *Store) RenameTaskType(ctx context.Context, id, name string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE task_types SET task_type_name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskTypeNotFound
	}
	return nil
}

func (s *Store) DeleteTaskType(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM task_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskTypeNotFound
	}
	return nil
}

func (s *Store) ListFeedback(ctx context.Context, employeeNumber string) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, reviewer_number, content, score, created_at
    FROM feedbacks
    WHERE employee_number = $1
    ORDER BY created_at DESC
  `, employeeNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var feedback Feedback
		if err := rows.Scan(&feedback.ID, &feedback.EmployeeNumber, &feedback.ReviewerNumber,
			&feedback.Content, &feedback.Score, &feedback.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, feedback)
	}
	return out, rows.Err()
}

func (s *Store) CreateFeedback(ctx context.Context, feedback Feedback) (Feedback, error) {
	feedback.ID = uuid.NewString()
	err := s.DB.QueryRow(ctx, `
    INSERT INTO feedbacks (id, employee_number, reviewer_number, content, score)
    VALUES ($1,$2,$3,$4,$5) RETURNING created_at
  `, feedback.ID, feedback.EmployeeNumber, feedback.ReviewerNumber, feedback.Content, feedback.Score).Scan(&feedback.CreatedAt)
	return feedback, err
}

func (s *Store) UpdateFeedback(ctx context.Context, id, reviewerNumber, content string, score int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE feedbacks SET content = $1, score = $2 WHERE id = $3 AND reviewer_number = $4
  `, content, score, id, reviewerNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
