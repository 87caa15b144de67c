package handler

import (
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"go.uber.org/zap"
)

// InsightHandler serves the insights feed and the progress screen
type InsightHandler struct {
	service *service.InsightService
	logger  *zap.Logger
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(service *service.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1Insights returns the caller's insights, most important first
func (h *InsightHandler) GetApiV1Insights(c *gin.Context, params api.GetApiV1InsightsParams) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	loc, ok := timeZone(c, params.Tz)
	if !ok {
		return
	}

	insights, err := h.service.GetInsights(c.Request.Context(), userID, loc)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate insights", zap.String("user_id", userID))
		return
	}

	response := make([]api.InsightResponse, 0, len(insights))
	for _, i := range insights {
		response = append(response, toInsightResponse(i))
	}

	c.JSON(http.StatusOK, response)
}

// GetApiV1Progress returns the progress summary with chart data
func (h *InsightHandler) GetApiV1Progress(c *gin.Context, params api.GetApiV1ProgressParams) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	loc, ok := timeZone(c, params.Tz)
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(c.Request.Context(), userID, loc)
	if err != nil {
		respondError(c, h.logger, err, "Failed to summarize progress", zap.String("user_id", userID))
		return
	}

	history := make([]api.ScorePoint, 0, len(progress.ScoreHistory))
	for _, p := range progress.ScoreHistory {
		history = append(history, api.ScorePoint{Date: p.Date, Score: p.Score})
	}
	concerns := make([]api.ConcernCount, 0, len(progress.TopConcerns))
	for _, cc := range progress.TopConcerns {
		concerns = append(concerns, api.ConcernCount{Concern: cc.Concern, Count: cc.Count})
	}

	c.JSON(http.StatusOK, api.ProgressResponse{
		AverageCondition: progress.Summary.AverageCondition,
		ImprovementRate:  progress.Summary.ImprovementRate,
		TotalLogs:        progress.Summary.TotalLogs,
		Streak:           progress.Summary.Streak,
		ConditionLabel:   progress.ConditionLabel,
		ScoreHistory:     history,
		TopConcerns:      concerns,
	})
}

// timeZone resolves the optional tz parameter. It answers 400 and reports
// false for names the zone database does not know.
func timeZone(c *gin.Context, tz *string) (*time.Location, bool) {
	if tz == nil || *tz == "" {
		return nil, true
	}
	// "Local" would silently mean the server's zone
	if *tz == "Local" {
		return nil, invalidTimeZone(c, *tz)
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return nil, invalidTimeZone(c, *tz)
	}
	return loc, true
}

func invalidTimeZone(c *gin.Context, tz string) bool {
	details := "unknown time zone " + tz
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "Invalid time zone",
		Details: &details,
	})
	return false
}
