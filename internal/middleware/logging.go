package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Keys the middleware chain stores on the gin context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's X-Request-ID or mints a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLoggingMiddleware writes one access line per request. The level
// follows the response class: 5xx is an error, 4xx a warning.
func RequestLoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		// the auth middleware runs after this one, so read the user late
		user := c.GetString(ContextKeyUserID)
		if user == "" {
			user = "anonymous"
		}
		status := c.Writer.Status()

		fields := append(requestFields(c),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("user_id", user),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(started)),
			zap.Time("timestamp", started),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		if ce := logger.Check(levelForStatus(status), "request served"); ce != nil {
			ce.Write(fields...)
		}
	}
}

// ErrorLoggingMiddleware reports errors handlers attached with c.Error.
func ErrorLoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		base := requestFields(c)
		for _, e := range c.Errors {
			logger.Error("handler error", append(base,
				zap.Error(e.Err),
				zap.Uint64("error_type", uint64(e.Type)),
				zap.Stack("stack_trace"),
			)...)
		}
	}
}

// RecoveryMiddleware turns a panic into a 500 with the standard error body.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error("panic recovered", append(requestFields(c),
				zap.Any("panic", r),
				zap.Stack("stack_trace"),
			)...)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			})
		}()
		c.Next()
	}
}

func requestFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", c.ClientIP()),
	}
	if id := c.GetString(ContextKeyRequestID); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

func levelForStatus(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
