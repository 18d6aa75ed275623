package ports

import (
	"context"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// RoleRepository defines role persistence. SaveAll persists every role in a
// single transaction so the seeder is all-or-nothing.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindDefault(ctx context.Context) (*domain.Role, error)
	SaveAll(ctx context.Context, roles []*domain.Role) error
}

// UserRepository defines user persistence for registration and login.
type UserRepository interface {
	FindByName(ctx context.Context, name string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// NoteRepository defines note persistence. ListByAuthor returns the author's
// notes ordered by timestamp descending.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	ListByAuthor(ctx context.Context, userID int64) ([]domain.Note, error)
}
