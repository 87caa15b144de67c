package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/skincare-journal/internal/middleware"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// Helper functions for type conversions between API types and internal models

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// optionalString returns nil for the empty string
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// uuidToString converts types.UUID to string
func uuidToString(u types.UUID) string {
	return uuid.UUID(u).String()
}

// stringToUUID converts a string id to types.UUID; unparsable ids give the zero UUID
func stringToUUID(s string) types.UUID {
	u, err := uuid.Parse(s)
	if err != nil {
		return types.UUID(uuid.Nil)
	}
	return types.UUID(u)
}

// dateToTime converts types.Date to time.Time
func dateToTime(d types.Date) time.Time {
	return d.Time
}

// datePtrToTime converts *types.Date to *time.Time
func datePtrToTime(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// timeToDate converts time.Time to types.Date
func timeToDate(t time.Time) types.Date {
	return types.Date{Time: t}
}

// currentUser returns the caller set by the auth middleware
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		})
		return "", false
	}
	return userID, true
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return false
	}
	return true
}

// respondError maps service errors onto HTTP responses. message is used for
// unexpected failures, which are logged.
func respondError(c *gin.Context, logger *zap.Logger, err error, message string, fields ...zap.Field) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Resource not found",
		})
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		})
	case errors.Is(err, model.ErrUpstream):
		logger.Warn(message, append(fields, zap.Error(err))...)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{
			Code:    "UPSTREAM_ERROR",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	default:
		logger.Error(message, append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	}
}
