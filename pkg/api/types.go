// Package api holds the HTTP contract of the skincare journal: request and
// response types, the server interface and its gin bindings.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for SkinCondition.
const (
	Excellent SkinCondition = "excellent"
	Fair      SkinCondition = "fair"
	Good      SkinCondition = "good"
	Poor      SkinCondition = "poor"
)

// Defines values for ProductCategory.
const (
	Cleanser    ProductCategory = "cleanser"
	Moisturizer ProductCategory = "moisturizer"
	Other       ProductCategory = "other"
	Serum       ProductCategory = "serum"
	Sunscreen   ProductCategory = "sunscreen"
	Toner       ProductCategory = "toner"
	Treatment   ProductCategory = "treatment"
)

// Defines values for InsightType.
const (
	Alert          InsightType = "alert"
	Milestone      InsightType = "milestone"
	Recommendation InsightType = "recommendation"
	Trend          InsightType = "trend"
)

// Defines values for InsightPriority.
const (
	High   InsightPriority = "high"
	Low    InsightPriority = "low"
	Medium InsightPriority = "medium"
)

// SkinCondition defines model for SkinCondition.
type SkinCondition string

// ProductCategory defines model for ProductCategory.
type ProductCategory string

// InsightType defines model for InsightType.
type InsightType string

// InsightPriority defines model for InsightPriority.
type InsightPriority string

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    string  `json:"code"`
	Details *string `json:"details,omitempty"`
	Message string  `json:"message"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Database  string    `json:"database"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateSkinLogRequest defines model for CreateSkinLogRequest.
type CreateSkinLogRequest struct {
	Concerns  *[]string     `json:"concerns,omitempty"`
	Condition SkinCondition `json:"condition"`
	Date      *time.Time    `json:"date,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
	PhotoUri  *string       `json:"photo_uri,omitempty"`
	SkinScore *int          `json:"skin_score,omitempty"`
}

// UpdateSkinLogRequest defines model for UpdateSkinLogRequest.
type UpdateSkinLogRequest struct {
	Concerns  *[]string      `json:"concerns,omitempty"`
	Condition *SkinCondition `json:"condition,omitempty"`
	Date      *time.Time     `json:"date,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	PhotoUri  *string        `json:"photo_uri,omitempty"`
	SkinScore *int           `json:"skin_score,omitempty"`
}

// SkinLogResponse defines model for SkinLogResponse.
type SkinLogResponse struct {
	Analysis  *SkinAnalysis      `json:"analysis,omitempty"`
	Concerns  []string           `json:"concerns"`
	Condition SkinCondition      `json:"condition"`
	CreatedAt time.Time          `json:"created_at"`
	Date      time.Time          `json:"date"`
	Id        openapi_types.UUID `json:"id"`
	Notes     *string            `json:"notes,omitempty"`
	PhotoUri  *string            `json:"photo_uri,omitempty"`
	SkinScore int                `json:"skin_score"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// SkinAnalysis defines model for SkinAnalysis.
type SkinAnalysis struct {
	Concerns         []AnalysisConcern `json:"concerns"`
	DetectedFeatures DetectedFeatures  `json:"detected_features"`
	Recommendations  []string          `json:"recommendations"`
	SkinScore        int               `json:"skin_score"`
	SkinType         string            `json:"skin_type"`
}

// DetectedFeatures defines model for DetectedFeatures.
type DetectedFeatures struct {
	Acne      *float64 `json:"acne,omitempty"`
	DarkSpots *float64 `json:"dark_spots,omitempty"`
	Hydration *float64 `json:"hydration,omitempty"`
	Oiliness  *float64 `json:"oiliness,omitempty"`
	Pores     *float64 `json:"pores,omitempty"`
	Redness   *float64 `json:"redness,omitempty"`
	SunDamage *float64 `json:"sun_damage,omitempty"`
	Texture   *float64 `json:"texture,omitempty"`
	Wrinkles  *float64 `json:"wrinkles,omitempty"`
}

// AnalysisConcern defines model for AnalysisConcern.
type AnalysisConcern struct {
	Confidence *float64 `json:"confidence,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Severity   string   `json:"severity"`
	Type       string   `json:"type"`
}

// CreateProductRequest defines model for CreateProductRequest.
type CreateProductRequest struct {
	Brand     *string             `json:"brand,omitempty"`
	Category  ProductCategory     `json:"category"`
	Name      string              `json:"name"`
	Notes     *string             `json:"notes,omitempty"`
	StartDate *openapi_types.Date `json:"start_date,omitempty"`
}

// UpdateProductRequest defines model for UpdateProductRequest.
type UpdateProductRequest struct {
	Brand     *string             `json:"brand,omitempty"`
	Category  *ProductCategory    `json:"category,omitempty"`
	IsActive  *bool               `json:"is_active,omitempty"`
	Name      *string             `json:"name,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
	StartDate *openapi_types.Date `json:"start_date,omitempty"`
}

// SetProductActiveRequest defines model for SetProductActiveRequest.
type SetProductActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ProductResponse defines model for ProductResponse.
type ProductResponse struct {
	Brand     *string            `json:"brand,omitempty"`
	Category  ProductCategory    `json:"category"`
	CreatedAt time.Time          `json:"created_at"`
	Id        openapi_types.UUID `json:"id"`
	IsActive  bool               `json:"is_active"`
	Name      string             `json:"name"`
	Notes     *string            `json:"notes,omitempty"`
	StartDate openapi_types.Date `json:"start_date"`
}

// InsightResponse defines model for InsightResponse.
type InsightResponse struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Id          string          `json:"id"`
	Priority    InsightPriority `json:"priority"`
	Title       string          `json:"title"`
	Type        InsightType     `json:"type"`
}

// ScorePoint defines model for ScorePoint.
type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// ConcernCount defines model for ConcernCount.
type ConcernCount struct {
	Concern string `json:"concern"`
	Count   int    `json:"count"`
}

// ProgressResponse defines model for ProgressResponse.
type ProgressResponse struct {
	AverageCondition float64        `json:"average_condition"`
	ConditionLabel   string         `json:"condition_label"`
	ImprovementRate  int            `json:"improvement_rate"`
	ScoreHistory     []ScorePoint   `json:"score_history"`
	Streak           int            `json:"streak"`
	TopConcerns      []ConcernCount `json:"top_concerns"`
	TotalLogs        int            `json:"total_logs"`
}

// AnalyzePhotoRequest defines model for AnalyzePhotoRequest.
type AnalyzePhotoRequest struct {
	Image []byte `json:"image"`
	Save  *bool  `json:"save,omitempty"`
}

// AnalyzePhotoResponse defines model for AnalyzePhotoResponse.
type AnalyzePhotoResponse struct {
	Analysis  SkinAnalysis     `json:"analysis"`
	Condition SkinCondition    `json:"condition"`
	Log       *SkinLogResponse `json:"log,omitempty"`
	PhotoUri  string           `json:"photo_uri"`
}

// GenerateReportRequest defines model for GenerateReportRequest.
type GenerateReportRequest struct {
	EndDate   openapi_types.Date `json:"end_date"`
	StartDate openapi_types.Date `json:"start_date"`
	UserName  *string            `json:"user_name,omitempty"`
}

// ReportResponse defines model for ReportResponse.
type ReportResponse struct {
	DateRangeEnd   openapi_types.Date `json:"date_range_end"`
	DateRangeStart openapi_types.Date `json:"date_range_start"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Id             openapi_types.UUID `json:"id"`
}

// AuditEntry defines model for AuditEntry.
type AuditEntry struct {
	IpAddress     *string   `json:"ip_address,omitempty"`
	OperationType string    `json:"operation_type"`
	ResourceId    *string   `json:"resource_id,omitempty"`
	ResourceType  string    `json:"resource_type"`
	Timestamp     time.Time `json:"timestamp"`
}

// DeleteAccountResponse defines model for DeleteAccountResponse.
type DeleteAccountResponse struct {
	Blobs    int    `json:"blobs"`
	Message  string `json:"message"`
	Products int    `json:"products"`
	Reports  int    `json:"reports"`
	SkinLogs int    `json:"skin_logs"`
}

// GetApiV1InsightsParams defines parameters for GetApiV1Insights.
type GetApiV1InsightsParams struct {
	Tz *string `form:"tz,omitempty" json:"tz,omitempty"`
}

// GetApiV1ProgressParams defines parameters for GetApiV1Progress.
type GetApiV1ProgressParams struct {
	Tz *string `form:"tz,omitempty" json:"tz,omitempty"`
}

// GetApiV1MeAuditParams defines parameters for GetApiV1MeAudit.
type GetApiV1MeAuditParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// PostApiV1LogsJSONRequestBody defines body for PostApiV1Logs for application/json ContentType.
type PostApiV1LogsJSONRequestBody = CreateSkinLogRequest

// PutApiV1LogsIdJSONRequestBody defines body for PutApiV1LogsId for application/json ContentType.
type PutApiV1LogsIdJSONRequestBody = UpdateSkinLogRequest

// PostApiV1ProductsJSONRequestBody defines body for PostApiV1Products for application/json ContentType.
type PostApiV1ProductsJSONRequestBody = CreateProductRequest

// PutApiV1ProductsIdJSONRequestBody defines body for PutApiV1ProductsId for application/json ContentType.
type PutApiV1ProductsIdJSONRequestBody = UpdateProductRequest

// PutApiV1ProductsIdActiveJSONRequestBody defines body for PutApiV1ProductsIdActive for application/json ContentType.
type PutApiV1ProductsIdActiveJSONRequestBody = SetProductActiveRequest

// PostApiV1AnalysisJSONRequestBody defines body for PostApiV1Analysis for application/json ContentType.
type PostApiV1AnalysisJSONRequestBody = AnalyzePhotoRequest

// PostApiV1ReportsJSONRequestBody defines body for PostApiV1Reports for application/json ContentType.
type PostApiV1ReportsJSONRequestBody = GenerateReportRequest
