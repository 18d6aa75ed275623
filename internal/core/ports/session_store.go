package ports

import (
	"context"
	"time"
)

// SessionStore tracks live session ids so logout can revoke a token before
// it expires. Entries carry the same TTL as the token itself.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}
