package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/repositories"
	"github.com/yeuxouverts/shop/pkg/auth"
	"github.com/yeuxouverts/shop/pkg/metrics"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUnknownEmail = errors.New("no account for email")
	ErrBadPassword  = errors.New("password does not match")
)

// AuthService registers and authenticates users. Session handling stays in
// the controller; the service only decides who the caller is.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with a bcrypt-hashed password. An email that is
// already registered returns ErrEmailTaken and writes nothing.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: register: %w", err)
	}
	if existing != nil {
		metrics.RecordAuth("register", "email_taken")
		return nil, ErrEmailTaken
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: register: %w", err)
	}

	user := &models.User{Name: strings.TrimSpace(name), Email: email, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		// Any other unique key (the primary key) is a real failure.
		if errors.Is(err, repositories.ErrDuplicate) {
			if taken, ferr := s.users.FindByEmail(ctx, email); ferr == nil && taken != nil {
				metrics.RecordAuth("register", "email_taken")
				return nil, ErrEmailTaken
			}
		}
		return nil, fmt.Errorf("auth: register: %w", err)
	}

	metrics.RecordAuth("register", "success")
	return user, nil
}

// Login returns the user whose email and password match.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: login: %w", err)
	}
	if user == nil {
		metrics.RecordAuth("login", "unknown_email")
		return nil, ErrUnknownEmail
	}
	if !auth.CheckPassword(user.Password, password) {
		metrics.RecordAuth("login", "bad_password")
		return nil, ErrBadPassword
	}

	metrics.RecordAuth("login", "success")
	return user, nil
}
