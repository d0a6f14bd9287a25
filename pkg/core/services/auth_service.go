package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("account may not access the back office")
)

type AuthService struct {
	users ports.UserRepository
	clock ports.Clock
}

func NewAuthService(users ports.UserRepository, clock ports.Clock) *AuthService {
	return &AuthService{users: users, clock: clock}
}

// Authenticate checks a password login. Only ADMIN accounts are accepted.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get user", Err: err}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get user", Err: err}
	}
	if user == nil {
		return nil, &domain.NotFoundError{Resource: "user", ID: id}
	}
	return user, nil
}

// AdminByEmail resolves an externally verified identity (Google sign-in) to an admin account
func (s *AuthService) AdminByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get user", Err: err}
	}
	if user == nil {
		return nil, &domain.NotFoundError{Resource: "user", ID: email}
	}
	if user.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return user, nil
}

// CreateUser hashes the password and stores a new account
func (s *AuthService) CreateUser(ctx context.Context, email, name, password string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, &domain.ValidationError{Field: "email", Message: "is required"}
	}
	if len(password) < 6 {
		return nil, &domain.ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get user", Err: err}
	}
	if existing != nil {
		return nil, &domain.ValidationError{Field: "email", Message: "already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, &domain.PersistenceError{Op: "create user", Err: err}
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
