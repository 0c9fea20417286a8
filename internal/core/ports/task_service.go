package ports

import (
	"context"

	"github.com/taskboard/task-manager/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task. UserID comes from the
// verified token, never from the request body.
type CreateTaskInput struct {
	UserID         string
	Title          string
	Description    string
	Category       string
	IdempotencyKey string
}

// CreateTaskResult wraps the created task.
type CreateTaskResult struct {
	Task *domain.Task
	// Replayed is true when the Idempotency-Key matched an earlier create.
	Replayed bool
}

// UpdateTaskInput replaces every editable field of a task.
type UpdateTaskInput struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Category    string
	IsCompleted bool
}

// TaskService defines the task use cases. Every call is scoped to userID.
type TaskService interface {
	List(ctx context.Context, userID string) ([]*domain.Task, error)
	Get(ctx context.Context, id int64, userID string) (*domain.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (*CreateTaskResult, error)
	Update(ctx context.Context, input UpdateTaskInput) error
	Delete(ctx context.Context, id int64, userID string) error
}
