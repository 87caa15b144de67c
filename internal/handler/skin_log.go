package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// SkinLogHandler implements journal entry endpoints
type SkinLogHandler struct {
	service  *service.SkinLogService
	analysis *service.AnalysisService
	logger   *zap.Logger
}

// NewSkinLogHandler creates a new SkinLogHandler. analysis serves entry photos.
func NewSkinLogHandler(service *service.SkinLogService, analysis *service.AnalysisService, logger *zap.Logger) *SkinLogHandler {
	return &SkinLogHandler{
		service:  service,
		analysis: analysis,
		logger:   logger,
	}
}

// GetApiV1Logs lists the caller's journal, newest first
func (h *SkinLogHandler) GetApiV1Logs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	logs, err := h.service.ListLogs(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list skin logs", zap.String("user_id", userID))
		return
	}

	response := make([]api.SkinLogResponse, 0, len(logs))
	for i := range logs {
		response = append(response, toSkinLogResponse(&logs[i]))
	}

	c.JSON(http.StatusOK, response)
}

// PostApiV1Logs adds a journal entry
func (h *SkinLogHandler) PostApiV1Logs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.CreateSkinLogRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	log := &model.SkinLog{Condition: model.Condition(req.Condition)}
	if req.Date != nil {
		log.Date = *req.Date
	}
	if req.Concerns != nil {
		log.Concerns = *req.Concerns
	}
	if req.Notes != nil {
		log.Notes = *req.Notes
	}
	if req.PhotoUri != nil {
		log.PhotoURI = *req.PhotoUri
	}
	if req.SkinScore != nil {
		log.SkinScore = *req.SkinScore
	}

	if err := h.service.AddLog(c.Request.Context(), userID, log); err != nil {
		respondError(c, h.logger, err, "Failed to add skin log", zap.String("user_id", userID))
		return
	}

	h.logger.Info("skin log added",
		zap.String("log_id", log.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusCreated, toSkinLogResponse(log))
}

// GetApiV1LogsId returns one entry
func (h *SkinLogHandler) GetApiV1LogsId(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	log, err := h.service.GetLog(c.Request.Context(), userID, uuidToString(id))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get skin log", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, toSkinLogResponse(log))
}

// PutApiV1LogsId applies a partial update
func (h *SkinLogHandler) PutApiV1LogsId(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.UpdateSkinLogRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	upd := model.SkinLogUpdate{
		Date:      req.Date,
		Notes:     req.Notes,
		PhotoURI:  req.PhotoUri,
		SkinScore: req.SkinScore,
	}
	if req.Condition != nil {
		condition := model.Condition(*req.Condition)
		upd.Condition = &condition
	}
	if req.Concerns != nil {
		upd.Concerns = *req.Concerns
	}

	log, err := h.service.UpdateLog(c.Request.Context(), userID, uuidToString(id), upd)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update skin log", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, toSkinLogResponse(log))
}

// DeleteApiV1LogsId removes an entry
func (h *SkinLogHandler) DeleteApiV1LogsId(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteLog(c.Request.Context(), userID, uuidToString(id)); err != nil {
		respondError(c, h.logger, err, "Failed to delete skin log", zap.String("user_id", userID))
		return
	}

	c.Status(http.StatusNoContent)
}

// GetApiV1LogsIdPhoto streams the selfie attached to an entry
func (h *SkinLogHandler) GetApiV1LogsIdPhoto(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	log, err := h.service.GetLog(ctx, userID, uuidToString(id))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get skin log", zap.String("user_id", userID))
		return
	}
	if log.PhotoURI == "" {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Entry has no photo",
		})
		return
	}

	data, contentType, err := h.analysis.GetPhoto(ctx, userID, log.PhotoURI)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load photo",
			zap.String("user_id", userID),
			zap.String("photo_uri", log.PhotoURI),
		)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
