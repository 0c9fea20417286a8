package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/ports"
)

// MinSigningKeyBytes is the smallest HMAC-SHA256 key accepted (256 bits).
const MinSigningKeyBytes = 32

const defaultTokenTTL = 24 * time.Hour

// Claims is the payload of an access token. Subject carries the email and
// ID the token id; UserID is the key every task query is scoped by.
type Claims struct {
	UserID string `json:"nameid"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService fails with domain.ErrSigningKey when key is shorter than
// MinSigningKeyBytes.
func NewTokenService(key, issuer string, ttl time.Duration) (*TokenService, error) {
	if err := checkSigningKey([]byte(key)); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{key: []byte(key), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

func checkSigningKey(key []byte) error {
	if len(key) < MinSigningKeyBytes {
		return fmt.Errorf("%w: key is %d bits, at least %d required", domain.ErrSigningKey, len(key)*8, MinSigningKeyBytes*8)
	}
	return nil
}

// Issue mints a token for user, valid for the configured TTL.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if err := checkSigningKey(s.key); err != nil {
		return "", err
	}
	if user == nil || user.ID == "" || user.Email == "" {
		return "", errors.New("issue token: user identity is incomplete")
	}

	now := s.now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, algorithm, issuer and expiry, and returns the
// identity the token proves. Any failure wraps domain.ErrUnauthenticated.
func (s *TokenService) Validate(token string) (*ports.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no identity claim", domain.ErrUnauthenticated)
	}

	return &ports.Identity{
		UserID:    claims.UserID,
		Email:     claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
