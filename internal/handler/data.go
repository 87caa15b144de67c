package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"go.uber.org/zap"
)

const maxAuditLimit = 500

// DataHandler implements data portability and erasure endpoints
type DataHandler struct {
	service *service.DataService
	logger  *zap.Logger
}

// NewDataHandler creates a new DataHandler
func NewDataHandler(service *service.DataService, logger *zap.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1MeExport returns everything stored about the caller as a JSON download
func (h *DataHandler) GetApiV1MeExport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	export, err := h.service.ExportUserData(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to export user data", zap.String("user_id", userID))
		return
	}

	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		respondError(c, h.logger, err, "Failed to export user data", zap.String("user_id", userID))
		return
	}

	h.logger.Info("user data exported",
		zap.String("user_id", userID),
		zap.Int("data_size_bytes", len(jsonData)),
	)

	filename := fmt.Sprintf("skincare_journal_%s.json", export.ExportedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/json", jsonData)
}

// DeleteApiV1Me erases the caller's journal, products, reports and files
func (h *DataHandler) DeleteApiV1Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	h.logger.Info("processing user data deletion request",
		zap.String("user_id", userID),
		zap.String("ip", c.ClientIP()),
	)

	counts, err := h.service.DeleteUserData(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete user data", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusOK, api.DeleteAccountResponse{
		Message:  "User data deleted successfully",
		SkinLogs: counts.SkinLogs,
		Products: counts.Products,
		Reports:  counts.Reports,
		Blobs:    counts.Blobs,
	})
}

// GetApiV1MeAudit lists the newest audit entries of the caller
func (h *DataHandler) GetApiV1MeAudit(c *gin.Context, params api.GetApiV1MeAuditParams) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
		if limit < 1 || limit > maxAuditLimit {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: fmt.Sprintf("limit must be between 1 and %d", maxAuditLimit),
			})
			return
		}
	}

	entries, err := h.service.AuditHistory(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get audit history", zap.String("user_id", userID))
		return
	}

	response := make([]api.AuditEntry, 0, len(entries))
	for _, e := range entries {
		response = append(response, toAuditEntry(e))
	}

	c.JSON(http.StatusOK, response)
}
