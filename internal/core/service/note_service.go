package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

// NoteService implements the authenticated note flow.
type NoteService struct {
	repo   ports.NoteRepository
	logger zerolog.Logger
}

func NewNoteService(repo ports.NoteRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

// Create persists a new note for the author with the current UTC instant as
// its immutable timestamp. Bodies that are empty after trimming are rejected
// and nothing is persisted.
func (s *NoteService) Create(ctx context.Context, authorID int64, body string) (*domain.Note, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyNote
	}

	note := &domain.Note{
		Body:      body,
		Timestamp: time.Now().UTC(),
		UserID:    authorID,
	}

	created, err := s.repo.Create(ctx, note)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", authorID).Msg("failed to create note")
		return nil, err
	}

	s.logger.Info().Int64("user_id", authorID).Int64("note_id", created.ID).Msg("note created")
	return created, nil
}

// List returns all of the author's notes, newest first.
func (s *NoteService) List(ctx context.Context, authorID int64) ([]domain.Note, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}
