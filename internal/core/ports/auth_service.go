package ports

import (
	"context"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Email string
	Token string
}

type AuthService interface {
	// Register creates the account and signs the user in. When the account is
	// stored but the token cannot be minted, the result carries the email and
	// the error wraps domain.ErrTokenIssue.
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
