package skinlog

import (
	"context"
	"time"
)

// Repository persists skin logs. Upsert must replace an existing entry for the same user and day.
type Repository interface {
	Upsert(ctx context.Context, log Log) (Log, error)
	// ListSince returns logs with logged_at on or after since, newest first. limit <= 0 means no limit.
	ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]Log, error)
}
