package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"go.uber.org/zap"
)

// AnalysisHandler implements the photo analysis endpoint
type AnalysisHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(service *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1Analysis analyzes a base64 selfie and optionally saves it as an entry
func (h *AnalysisHandler) PostApiV1Analysis(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.AnalyzePhotoRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	save := req.Save != nil && *req.Save

	result, err := h.service.AnalyzePhoto(c.Request.Context(), userID, req.Image, save)
	if err != nil {
		respondError(c, h.logger, err, "Failed to analyze photo", zap.String("user_id", userID))
		return
	}

	response := api.AnalyzePhotoResponse{
		Analysis:  toSkinAnalysis(result.Analysis),
		Condition: api.SkinCondition(result.Condition),
		PhotoUri:  result.PhotoURI,
	}
	if result.Log != nil {
		log := toSkinLogResponse(result.Log)
		response.Log = &log
	}

	c.JSON(http.StatusOK, response)
}
