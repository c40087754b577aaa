// Package service implements the business logic between the HTTP handlers
// and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alpsupport/ticketdesk/internal/models"
	"github.com/alpsupport/ticketdesk/internal/token"
)

const bcryptCost = 12

// ErrInvalidCredentials is returned when login email/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines the persistence operations required by AuthService.
type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, id, name, email, phone string) (*models.User, error)
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// AuthService handles registration, login, and account management.
type AuthService struct {
	repo   UserRepository
	secret string
	ttl    time.Duration
}

// NewAuthService constructs an AuthService signing tokens with secret,
// valid for ttl.
func NewAuthService(repo UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, secret: secret, ttl: ttl}
}

// Register creates a new account with a bcrypt-hashed password.
// Role defaults to Client when empty.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleAdmin && role != models.RoleClient {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &models.User{
		Name: name, Email: email, Phone: strings.TrimSpace(phone), Role: role,
	}, string(hash))
}

// Login verifies credentials and returns a signed bearer token plus the
// public profile. Unknown emails and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, hash, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	tok, err := token.Sign(s.secret, u.ID, u.Role, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return tok, u, nil
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsersByRole returns all users with the given role.
func (s *AuthService) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.repo.ListByRole(ctx, role)
}

// UpdateUser modifies profile fields of an existing user.
func (s *AuthService) UpdateUser(ctx context.Context, id, name, email, phone string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, errors.New("name and email are required")
	}
	return s.repo.Update(ctx, id, name, email, strings.TrimSpace(phone))
}

// DeleteUser removes the account.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ChangePassword replaces the password of an existing account.
func (s *AuthService) ChangePassword(ctx context.Context, id, password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}
