package domain

import "time"

// Note is a single authored text entry. The timestamp is set once at
// creation (UTC) and never updated.
type Note struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"-"`
}
