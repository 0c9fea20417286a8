package ports

import (
	"context"

	"github.com/taskboard/task-manager/internal/core/domain"
)

// AuthRepository is the Credential Store.
type AuthRepository interface {
	// Create persists a new user. Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
