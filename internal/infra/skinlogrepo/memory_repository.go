package skinlogrepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/skinguide/internal/domain/skinlog"
	"github.com/yanqian/skinguide/pkg/util"
)

// MemoryRepository provides an in-memory skin diary for tests/dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	logs map[string]map[string]skinlog.Log
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{logs: make(map[string]map[string]skinlog.Log)}
}

// Upsert stores the entry, replacing any existing entry for the same user and day.
func (r *MemoryRepository) Upsert(_ context.Context, log skinlog.Log) (skinlog.Log, error) {
	if log.UserID == "" || log.LoggedAt == "" {
		return skinlog.Log{}, errors.New("user id and logged_at are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	days, ok := r.logs[log.UserID]
	if !ok {
		days = make(map[string]skinlog.Log)
		r.logs[log.UserID] = days
	}
	if existing, ok := days[log.LoggedAt]; ok {
		log.ID = existing.ID
		log.CreatedAt = existing.CreatedAt
	}
	log.BreakoutAreas = append([]string(nil), log.BreakoutAreas...)
	days[log.LoggedAt] = log
	return log, nil
}

// ListSince returns entries on or after since, newest first.
func (r *MemoryRepository) ListSince(_ context.Context, userID string, since time.Time, limit int) ([]skinlog.Log, error) {
	cutoff := util.FormatDate(since)
	r.mu.RLock()
	out := make([]skinlog.Log, 0, len(r.logs[userID]))
	for day, log := range r.logs[userID] {
		if day < cutoff {
			continue
		}
		log.BreakoutAreas = append([]string(nil), log.BreakoutAreas...)
		out = append(out, log)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LoggedAt > out[j].LoggedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ skinlog.Repository = (*MemoryRepository)(nil)
