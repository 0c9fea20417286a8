package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.AuthRepository
	tokens ports.TokenIssuer
	policy domain.PasswordPolicy
	log    zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, policy domain.PasswordPolicy, log zerolog.Logger) *AuthService {
	if policy == "" {
		policy = domain.PolicyStrict
	}
	return &AuthService{repo: repo, tokens: tokens, policy: policy, log: log}
}

// Register validates the credentials, stores the account and signs the new
// user in. Token failures after the account is stored are reported with
// domain.ErrTokenIssue together with the stored email; the account is kept.
func (s *AuthService) Register(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.policy.Check(password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("token generation failed after registration")
		return &ports.AuthResult{Email: user.Email}, fmt.Errorf("%w: %w", domain.ErrTokenIssue, err)
	}

	return &ports.AuthResult{Email: user.Email, Token: token}, nil
}

// Login verifies the credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("email", email).Msg("login rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Info().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.AuthResult{Email: user.Email, Token: token}, nil
}

var emailCheck = validator.New()

func validateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if err := emailCheck.Var(email, "email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email")
	}
	return nil
}
