package ports

import (
	"context"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// NoteService implements the authenticated note flow.
type NoteService interface {
	Create(ctx context.Context, authorID int64, body string) (*domain.Note, error)
	List(ctx context.Context, authorID int64) ([]domain.Note, error)
}
