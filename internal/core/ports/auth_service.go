package ports

import (
	"context"
	"time"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Name     string
	Password string
	Remember bool
}

// SessionResult is a freshly issued session: the signed token and how long
// it stays valid.
type SessionResult struct {
	Token     string
	TTL       time.Duration
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService implements registration, login and logout. Register never
// establishes a session; callers log in explicitly afterwards.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*SessionResult, error)
	Logout(ctx context.Context, rawToken string) error
}
