package ports

import (
	"context"

	"github.com/taskboard/task-manager/internal/core/domain"
)

// TaskRepository is the Task Store. Mutations are scoped by owner as well as
// by id, so a row belonging to someone else is never touched.
type TaskRepository interface {
	// Create inserts t and sets its ID.
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(ctx context.Context, userID string) ([]*domain.Task, error)
	// Update overwrites title, description, category and completion.
	// Returns domain.ErrTaskNotFound when no row matches id and t.UserID.
	Update(ctx context.Context, t *domain.Task) error
	// Delete returns domain.ErrTaskNotFound when no row matches id and userID.
	Delete(ctx context.Context, id int64, userID string) error
}

// IdempotencyStore remembers which task a client-supplied key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string) (taskID int64, found bool, err error)
	Remember(ctx context.Context, userID, key string, taskID int64) error
}
