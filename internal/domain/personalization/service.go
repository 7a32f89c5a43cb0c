package personalization

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/skinguide/internal/domain/catalog"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	apperrors "github.com/yanqian/skinguide/pkg/errors"
	"github.com/yanqian/skinguide/pkg/metrics"
	"github.com/yanqian/skinguide/pkg/util"
)

// Disclaimer is returned verbatim with every personalized routine.
const Disclaimer = "This routine is general skincare advice based on your personal skin logs. It does not replace a medical diagnosis or treatment. If you have a skin condition or are allergic to specific ingredients, consult a dermatologist."

const revisitReminder = "Revisit your routine in 2 weeks to see how your skin responds"

// LogStore reads a user's skin diary.
type LogStore interface {
	FetchSince(ctx context.Context, userID string, since time.Time) ([]skinlog.Log, error)
}

// ProductCatalog searches products to recommend.
type ProductCatalog interface {
	SearchProducts(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error)
}

// Service generates personalized routines from a user's history.
type Service interface {
	Generate(ctx context.Context, userID string, req Request) (Response, error)
}

type service struct {
	cfg      Config
	logs     LogStore
	products ProductCatalog
	recorder *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the personalization orchestrator. recorder may be nil.
func NewService(cfg Config, logs LogStore, products ProductCatalog, recorder *metrics.Recorder, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg.withDefaults(),
		logs:     logs,
		products: products,
		recorder: recorder,
		logger:   logger.With("component", "personalization.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Generate(ctx context.Context, userID string, req Request) (Response, error) {
	if strings.TrimSpace(userID) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeAuthRequired, "sign in to get a routine built from your skin logs", nil)
	}
	timesOfDay, err := resolveTimesOfDay(req.RoutineType)
	if err != nil {
		return Response{}, err
	}
	if req.Focus != "" && !req.Focus.Valid() {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "focus must be one of hydration, oil_control, anti_aging, brightening, acne", nil)
	}

	now := s.now()
	since := util.TrailingWindowStart(now, s.cfg.LookbackDays)
	logs, err := s.logs.FetchSince(ctx, userID, since)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeStore, "failed to fetch your skin logs", err)
	}
	s.recorder.ObserveAnalyzedLogs(len(logs))

	analysis := Analyze(logs, s.cfg.LookbackDays)
	seasonal := SeasonalContextAt(now)

	focus := req.Focus
	if focus == "" {
		focus = analysis.RecommendedFocus[0]
	}
	routines := make([]PersonalizedRoutine, 0, len(timesOfDay))
	for _, tod := range timesOfDay {
		routines = append(routines, Synthesize(analysis.SkinTypeAssessment, focus, seasonal.CurrentSeason, tod))
	}

	recommendations := []ProductSummary{}
	if req.IncludeProducts == nil || *req.IncludeProducts {
		recommendations = s.recommendProducts(ctx, analysis.SkinTypeAssessment)
	}

	s.logger.Info("personalized routine generated",
		"user_id", userID,
		"logs", len(logs),
		"skin_type", analysis.SkinTypeAssessment,
		"focus", focus,
		"season", seasonal.CurrentSeason,
	)
	return Response{
		UserSkinAnalysis:       analysis,
		SeasonalContext:        seasonal,
		PersonalizedRoutines:   routines,
		ProductRecommendations: recommendations,
		NextSteps:              nextSteps(analysis),
		Disclaimer:             Disclaimer,
	}, nil
}

// recommendProducts never fails; catalog errors degrade to an empty list.
func (s *service) recommendProducts(ctx context.Context, skinType SkinType) []ProductSummary {
	products, err := s.products.SearchProducts(ctx, catalog.ProductQuery{
		SkinType: string(skinType),
		Limit:    s.cfg.ProductLimit,
	})
	if err != nil {
		s.logger.Warn("product recommendations unavailable", "skin_type", skinType, "error", err)
		s.recorder.CatalogDegraded()
		return []ProductSummary{}
	}
	if len(products) > s.cfg.ProductLimit {
		products = products[:s.cfg.ProductLimit]
	}
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, summarize(p))
	}
	return out
}

func resolveTimesOfDay(routineType TimeOfDay) ([]TimeOfDay, error) {
	switch routineType {
	case "", Both:
		return []TimeOfDay{Morning, Evening}, nil
	case Morning, Evening:
		return []TimeOfDay{routineType}, nil
	default:
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "routine_type must be morning, evening or both", nil)
	}
}

func nextSteps(analysis AnalysisResult) []string {
	var steps []string
	if !analysis.DataQuality.IsSufficient {
		steps = append(steps, fmt.Sprintf("Log your skin daily for %d more day(s) to sharpen this analysis",
			sufficientDays-analysis.DataQuality.DaysWithData))
	}
	if hasFocus(analysis.RecommendedFocus, FocusHydration) {
		steps = append(steps, "Drink plenty of water and keep indoor humidity up")
	}
	if hasFocus(analysis.RecommendedFocus, FocusAcne) {
		steps = append(steps, "Keep hands off your face and change pillowcases often")
	}
	return append(steps, revisitReminder)
}

func hasFocus(focus []Focus, want Focus) bool {
	for _, f := range focus {
		if f == want {
			return true
		}
	}
	return false
}
