package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// NoteRepository persists notes with gorm.
type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

type noteRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Body      string    `gorm:"column:body"`
	Timestamp time.Time `gorm:"column:timestamp"`
	UserID    int64     `gorm:"column:user_id"`
}

func (noteRow) TableName() string {
	return "notes"
}

func (r noteRow) toDomain() domain.Note {
	return domain.Note{
		ID:        r.ID,
		Body:      r.Body,
		Timestamp: r.Timestamp.UTC(),
		UserID:    r.UserID,
	}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	row := noteRow{
		Body:      note.Body,
		Timestamp: note.Timestamp,
		UserID:    note.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	created := row.toDomain()
	return &created, nil
}

// ListByAuthor returns all of the author's notes, most recent first.
func (r *NoteRepository) ListByAuthor(ctx context.Context, userID int64) ([]domain.Note, error) {
	var rows []noteRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]domain.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toDomain())
	}
	return notes, nil
}
