package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/vcscsvcscs/skincare-journal/internal/insight"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Number of scores shown on the progress chart
const scoreHistoryLength = 7

// SkinLogLister reads a user's journal
type SkinLogLister interface {
	FindByUserID(ctx context.Context, userID string) ([]model.SkinLog, error)
}

// ProductLister reads a user's products
type ProductLister interface {
	FindByUserID(ctx context.Context, userID string) ([]model.Product, error)
}

// Progress is the progress screen: the summary plus chart data
type Progress struct {
	Summary        model.ProgressSummary `json:"summary"`
	ConditionLabel string                `json:"condition_label"`
	ScoreHistory   []model.ScorePoint    `json:"score_history"`
	TopConcerns    []model.ConcernCount  `json:"top_concerns"`
}

// InsightService feeds stored history into the insight engine
type InsightService struct {
	logs     SkinLogLister
	products ProductLister
	logger   *zap.Logger
	now      func() time.Time
}

// NewInsightService creates a new InsightService
func NewInsightService(logs SkinLogLister, products ProductLister, logger *zap.Logger) *InsightService {
	return &InsightService{
		logs:     logs,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// GetInsights loads logs and products together and derives the insights.
// Calendar days are taken in loc, the server's zone when nil.
func (s *InsightService) GetInsights(ctx context.Context, userID string, loc *time.Location) ([]model.Insight, error) {
	var logs []model.SkinLog
	var products []model.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.logs.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load skin logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.products.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load insight inputs",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, err
	}

	insights := insight.Generate(logs, products, s.clock(loc))

	s.logger.Debug("insights generated",
		zap.String("user_id", userID),
		zap.Int("logs", len(logs)),
		zap.Int("insights", len(insights)),
	)
	return insights, nil
}

// GetProgress summarizes the whole journal of a user. Streak days are
// counted in loc, the server's zone when nil.
func (s *InsightService) GetProgress(ctx context.Context, userID string, loc *time.Location) (*Progress, error) {
	logs, err := s.logs.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load skin logs for progress",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to load skin logs: %w", err)
	}

	return buildProgress(logs, s.clock(loc)), nil
}

func (s *InsightService) clock(loc *time.Location) time.Time {
	now := s.now()
	if loc == nil {
		return now
	}
	return now.In(loc)
}

func buildProgress(logs []model.SkinLog, now time.Time) *Progress {
	summary := insight.Summarize(logs, now)
	concerns := insight.ConcernFrequency(logs)
	// Stable so equal counts keep first-seen order.
	slices.SortStableFunc(concerns, func(a, b model.ConcernCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(concerns) > 5 {
		concerns = concerns[:5]
	}

	return &Progress{
		Summary:        summary,
		ConditionLabel: insight.ConditionLabel(summary.AverageCondition),
		ScoreHistory:   insight.ScoreHistory(logs, scoreHistoryLength),
		TopConcerns:    concerns,
	}
}
