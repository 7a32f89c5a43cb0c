package skinlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/skinguide/pkg/errors"
	"github.com/yanqian/skinguide/pkg/util"
)

const (
	minRating          = 1
	maxRating          = 5
	defaultHistoryDays = 7
	defaultHistorySize = 10
)

// Service exposes the skin diary workflows.
type Service interface {
	Log(ctx context.Context, userID string, req LogRequest) (LogResponse, error)
	History(ctx context.Context, userID string, req HistoryRequest) (HistoryResponse, error)
	FetchSince(ctx context.Context, userID string, since time.Time) ([]Log, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the skin diary service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "skinlog.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Log(ctx context.Context, userID string, req LogRequest) (LogResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return LogResponse{}, apperrors.Wrap(apperrors.CodeAuthRequired, "sign in to log your skin condition", nil)
	}
	if err := validateRating("hydration", req.Hydration); err != nil {
		return LogResponse{}, err
	}
	if err := validateRating("oiliness", req.Oiliness); err != nil {
		return LogResponse{}, err
	}

	now := s.now()
	entry := Log{
		ID:            uuid.NewString(),
		UserID:        userID,
		LoggedAt:      util.FormatDate(now),
		Hydration:     req.Hydration,
		Oiliness:      req.Oiliness,
		HasBreakouts:  req.HasBreakouts,
		BreakoutAreas: normalizeAreas(req.BreakoutAreas),
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	saved, err := s.repo.Upsert(ctx, entry)
	if err != nil {
		return LogResponse{}, apperrors.Wrap(apperrors.CodeStore, "failed to save skin log", err)
	}
	s.logger.Info("skin log saved", "user_id", userID, "logged_at", saved.LoggedAt)
	return LogResponse{
		Success: true,
		Log:     saved,
		Message: "Skin condition logged successfully!",
	}, nil
}

func (s *service) History(ctx context.Context, userID string, req HistoryRequest) (HistoryResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return HistoryResponse{}, apperrors.Wrap(apperrors.CodeAuthRequired, "sign in to view your skin diary", nil)
	}
	days := req.Days
	if days <= 0 {
		days = defaultHistoryDays
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistorySize
	}
	since := util.StartOfDay(s.now()).AddDate(0, 0, -days)
	logs, err := s.repo.ListSince(ctx, userID, since, limit)
	if err != nil {
		return HistoryResponse{}, apperrors.Wrap(apperrors.CodeStore, "failed to fetch skin history", err)
	}
	if logs == nil {
		logs = []Log{}
	}
	return HistoryResponse{
		SkinLogs:   logs,
		TotalCount: len(logs),
		PeriodDays: days,
	}, nil
}

// FetchSince returns every log on or after since; it is the read path used by personalization.
func (s *service) FetchSince(ctx context.Context, userID string, since time.Time) ([]Log, error) {
	logs, err := s.repo.ListSince(ctx, userID, since, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "failed to fetch skin logs", err)
	}
	return logs, nil
}

func validateRating(field string, value *int) error {
	if value == nil {
		return nil
	}
	if *value < minRating || *value > maxRating {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("%s must be between %d and %d", field, minRating, maxRating), nil)
	}
	return nil
}

func normalizeAreas(areas []string) []string {
	out := make([]string, 0, len(areas))
	for _, area := range areas {
		clean := strings.ToLower(strings.TrimSpace(area))
		if clean == "" {
			continue
		}
		out = append(out, clean)
	}
	return out
}
