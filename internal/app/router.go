package app

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/skincare-journal/internal/auth"
	"github.com/vcscsvcscs/skincare-journal/internal/handler"
	"github.com/vcscsvcscs/skincare-journal/internal/middleware"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with the middleware chain and every API route
func NewRouter(services *Services, store *Store, verifier auth.TokenVerifier, logger *zap.Logger) (*gin.Engine, error) {
	server := &handler.Server{
		HealthHandler:   handler.NewHealthHandler(store.DB, logger),
		SkinLogHandler:  handler.NewSkinLogHandler(services.SkinLogs, services.Analysis, logger),
		ProductHandler:  handler.NewProductHandler(services.Products, logger),
		InsightHandler:  handler.NewInsightHandler(services.Insights, logger),
		AnalysisHandler: handler.NewAnalysisHandler(services.Analysis, logger),
		ReportHandler:   handler.NewReportHandler(services.Reports, logger),
		DataHandler:     handler.NewDataHandler(services.Data, logger),
	}

	swagger, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	validator, err := middleware.OpenAPIValidationMiddleware(swagger, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	r := gin.New()

	// Recovery must be first
	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))
	r.Use(middleware.AuthMiddleware(verifier, logger, "/health"))
	r.Use(validator)

	api.RegisterHandlersWithOptions(r, server, api.GinServerOptions{
		ErrorHandler: func(c *gin.Context, err error, statusCode int) {
			details := err.Error()
			c.JSON(statusCode, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid request parameters",
				Details: &details,
			})
		},
	})

	return r, nil
}
