package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Liveness and database check
	// (GET /health)
	GetHealth(c *gin.Context)
	// List journal entries, newest first
	// (GET /api/v1/logs)
	GetApiV1Logs(c *gin.Context)
	// Add a journal entry
	// (POST /api/v1/logs)
	PostApiV1Logs(c *gin.Context)
	// (DELETE /api/v1/logs/{id})
	DeleteApiV1LogsId(c *gin.Context, id openapi_types.UUID)
	// (GET /api/v1/logs/{id})
	GetApiV1LogsId(c *gin.Context, id openapi_types.UUID)
	// (PUT /api/v1/logs/{id})
	PutApiV1LogsId(c *gin.Context, id openapi_types.UUID)
	// Download the selfie attached to an entry
	// (GET /api/v1/logs/{id}/photo)
	GetApiV1LogsIdPhoto(c *gin.Context, id openapi_types.UUID)
	// (GET /api/v1/products)
	GetApiV1Products(c *gin.Context)
	// (POST /api/v1/products)
	PostApiV1Products(c *gin.Context)
	// (DELETE /api/v1/products/{id})
	DeleteApiV1ProductsId(c *gin.Context, id openapi_types.UUID)
	// (PUT /api/v1/products/{id})
	PutApiV1ProductsId(c *gin.Context, id openapi_types.UUID)
	// Start or stop using a product
	// (PUT /api/v1/products/{id}/active)
	PutApiV1ProductsIdActive(c *gin.Context, id openapi_types.UUID)
	// (GET /api/v1/insights)
	GetApiV1Insights(c *gin.Context, params GetApiV1InsightsParams)
	// (GET /api/v1/progress)
	GetApiV1Progress(c *gin.Context, params GetApiV1ProgressParams)
	// Analyze a selfie
	// (POST /api/v1/analysis)
	PostApiV1Analysis(c *gin.Context)
	// (GET /api/v1/reports)
	GetApiV1Reports(c *gin.Context)
	// (POST /api/v1/reports)
	PostApiV1Reports(c *gin.Context)
	// Download a report PDF
	// (GET /api/v1/reports/{id})
	GetApiV1ReportsId(c *gin.Context, id openapi_types.UUID)
	// Erase all data of the caller
	// (DELETE /api/v1/me)
	DeleteApiV1Me(c *gin.Context)
	// (GET /api/v1/me/audit)
	GetApiV1MeAudit(c *gin.Context, params GetApiV1MeAuditParams)
	// Export all data of the caller
	// (GET /api/v1/me/export)
	GetApiV1MeExport(c *gin.Context)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

// before runs the per-handler middlewares and reports whether the chain may continue
func (siw *ServerInterfaceWrapper) before(c *gin.Context, secured bool) bool {
	if secured {
		c.Set(BearerAuthScopes, []string{})
	}
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return false
		}
	}
	return true
}

func (siw *ServerInterfaceWrapper) bindID(c *gin.Context) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return id, false
	}
	return id, true
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(c *gin.Context) {
	if !siw.before(c, false) {
		return
	}
	siw.Handler.GetHealth(c)
}

// GetApiV1Logs operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Logs(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1Logs(c)
}

// PostApiV1Logs operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Logs(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.PostApiV1Logs(c)
}

// DeleteApiV1LogsId operation middleware
func (siw *ServerInterfaceWrapper) DeleteApiV1LogsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.DeleteApiV1LogsId(c, id)
}

// GetApiV1LogsId operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1LogsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1LogsId(c, id)
}

// PutApiV1LogsId operation middleware
func (siw *ServerInterfaceWrapper) PutApiV1LogsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.PutApiV1LogsId(c, id)
}

// GetApiV1LogsIdPhoto operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1LogsIdPhoto(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1LogsIdPhoto(c, id)
}

// GetApiV1Products operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Products(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1Products(c)
}

// PostApiV1Products operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Products(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.PostApiV1Products(c)
}

// DeleteApiV1ProductsId operation middleware
func (siw *ServerInterfaceWrapper) DeleteApiV1ProductsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.DeleteApiV1ProductsId(c, id)
}

// PutApiV1ProductsId operation middleware
func (siw *ServerInterfaceWrapper) PutApiV1ProductsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.PutApiV1ProductsId(c, id)
}

// PutApiV1ProductsIdActive operation middleware
func (siw *ServerInterfaceWrapper) PutApiV1ProductsIdActive(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.PutApiV1ProductsIdActive(c, id)
}

// GetApiV1Insights operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Insights(c *gin.Context) {
	var params GetApiV1InsightsParams

	err := runtime.BindQueryParameter("form", true, false, "tz", c.Request.URL.Query(), &params.Tz)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter tz: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1Insights(c, params)
}

// GetApiV1Progress operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Progress(c *gin.Context) {
	var params GetApiV1ProgressParams

	err := runtime.BindQueryParameter("form", true, false, "tz", c.Request.URL.Query(), &params.Tz)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter tz: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1Progress(c, params)
}

// PostApiV1Analysis operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Analysis(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.PostApiV1Analysis(c)
}

// GetApiV1Reports operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Reports(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1Reports(c)
}

// PostApiV1Reports operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Reports(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.PostApiV1Reports(c)
}

// GetApiV1ReportsId operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1ReportsId(c *gin.Context) {
	id, ok := siw.bindID(c)
	if !ok || !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1ReportsId(c, id)
}

// DeleteApiV1Me operation middleware
func (siw *ServerInterfaceWrapper) DeleteApiV1Me(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.DeleteApiV1Me(c)
}

// GetApiV1MeAudit operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1MeAudit(c *gin.Context) {
	var params GetApiV1MeAuditParams

	err := runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1MeAudit(c, params)
}

// GetApiV1MeExport operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1MeExport(c *gin.Context) {
	if !siw.before(c, true) {
		return
	}
	siw.Handler.GetApiV1MeExport(c)
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, ErrorResponse{Code: "VALIDATION_ERROR", Message: err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	base := options.BaseURL
	router.GET(base+"/health", wrapper.GetHealth)
	router.GET(base+"/api/v1/logs", wrapper.GetApiV1Logs)
	router.POST(base+"/api/v1/logs", wrapper.PostApiV1Logs)
	router.DELETE(base+"/api/v1/logs/:id", wrapper.DeleteApiV1LogsId)
	router.GET(base+"/api/v1/logs/:id", wrapper.GetApiV1LogsId)
	router.PUT(base+"/api/v1/logs/:id", wrapper.PutApiV1LogsId)
	router.GET(base+"/api/v1/logs/:id/photo", wrapper.GetApiV1LogsIdPhoto)
	router.GET(base+"/api/v1/products", wrapper.GetApiV1Products)
	router.POST(base+"/api/v1/products", wrapper.PostApiV1Products)
	router.DELETE(base+"/api/v1/products/:id", wrapper.DeleteApiV1ProductsId)
	router.PUT(base+"/api/v1/products/:id", wrapper.PutApiV1ProductsId)
	router.PUT(base+"/api/v1/products/:id/active", wrapper.PutApiV1ProductsIdActive)
	router.GET(base+"/api/v1/insights", wrapper.GetApiV1Insights)
	router.GET(base+"/api/v1/progress", wrapper.GetApiV1Progress)
	router.POST(base+"/api/v1/analysis", wrapper.PostApiV1Analysis)
	router.GET(base+"/api/v1/reports", wrapper.GetApiV1Reports)
	router.POST(base+"/api/v1/reports", wrapper.PostApiV1Reports)
	router.GET(base+"/api/v1/reports/:id", wrapper.GetApiV1ReportsId)
	router.DELETE(base+"/api/v1/me", wrapper.DeleteApiV1Me)
	router.GET(base+"/api/v1/me/audit", wrapper.GetApiV1MeAudit)
	router.GET(base+"/api/v1/me/export", wrapper.GetApiV1MeExport)
}
