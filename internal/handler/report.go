package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"go.uber.org/zap"
)

const defaultReportUserName = "Skincare Journal User"

// ReportHandler implements progress report endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1Reports renders a PDF report for a date range
func (h *ReportHandler) PostApiV1Reports(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req api.GenerateReportRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	startDate := dateToTime(req.StartDate)
	endDate := dateToTime(req.EndDate)
	if startDate.After(endDate) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Start date must be before or equal to end date",
		})
		return
	}

	userName := defaultReportUserName
	if req.UserName != nil && strings.TrimSpace(*req.UserName) != "" {
		userName = strings.TrimSpace(*req.UserName)
	}

	report, err := h.service.GenerateReport(c.Request.Context(), userID, userName, startDate, endDate)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate report", zap.String("user_id", userID))
		return
	}

	c.JSON(http.StatusCreated, toReportResponse(report))
}

// GetApiV1Reports lists generated reports
func (h *ReportHandler) GetApiV1Reports(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reports, err := h.service.ListReports(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list reports", zap.String("user_id", userID))
		return
	}

	response := make([]api.ReportResponse, 0, len(reports))
	for i := range reports {
		response = append(response, toReportResponse(&reports[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetApiV1ReportsId downloads a report
func (h *ReportHandler) GetApiV1ReportsId(c *gin.Context, id types.UUID) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reportID := uuidToString(id)

	report, pdfBytes, err := h.service.GetReport(c.Request.Context(), userID, reportID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get report",
			zap.String("report_id", reportID),
			zap.String("user_id", userID),
		)
		return
	}

	filename := fmt.Sprintf("skin_report_%s.pdf", report.DateRangeEnd.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)

	h.logger.Info("report downloaded",
		zap.String("report_id", reportID),
		zap.Int("size_bytes", len(pdfBytes)),
	)
}
