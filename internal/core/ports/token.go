package ports

import (
	"time"

	"github.com/taskboard/task-manager/internal/core/domain"
)

// Identity is what a verified bearer token proves about the caller.
type Identity struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (*Identity, error)
}
