package services

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// TokenIssuer mints access tokens for authenticated operators.
type TokenIssuer interface {
	GenerateToken(role string) (string, error)
}

// AuthService exchanges the configured admin password for a JWT. The
// dashboard has a single operator credential; there is no user store.
type AuthService struct {
	passwordHash []byte // bcrypt hash of the admin password
	tokens       TokenIssuer
	logger       *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates an auth service from the bcrypt hash of the admin
// password.
func NewAuthService(passwordHash string, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		logger:       logger.With("component", "auth"),
	}
}

// Login verifies the password and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.Warn("failed login attempt")
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken("admin")
	if err != nil {
		return "", err
	}
	return token, nil
}
