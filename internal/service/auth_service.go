package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hobbyhall/storefront/internal/auth"
	"github.com/hobbyhall/storefront/internal/domain"
)

const minPasswordLen = 8

// userRepository is the subset of store.UserStore that AuthService requires.
type userRepository interface {
	Create(ctx context.Context, email, name, passwordHash string, isStaff bool) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type AuthService struct {
	users  userRepository
	logger *slog.Logger
}

func NewAuthService(users userRepository, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Signup creates a non-staff account. Staff accounts are provisioned out of
// band.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email address is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, name, hash, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials, returning ErrBadCredentials for both unknown
// emails and wrong passwords so the response does not leak which it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrBadCredentials
	}
	return user, nil
}

func (s *AuthService) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
