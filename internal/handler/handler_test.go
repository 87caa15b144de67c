package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/skincare-journal/internal/analysis"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/auth"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/internal/localstore"
	"github.com/vcscsvcscs/skincare-journal/internal/middleware"
	"github.com/vcscsvcscs/skincare-journal/internal/pdf"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"go.uber.org/zap"
)

var jpegImage = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)

type testServer struct {
	router  *gin.Engine
	photos  *azure.MockBlobStorageClient
	reports *azure.MockBlobStorageClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store, err := localstore.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	photos := azure.NewMockBlobStorageClient(logger)
	reportBlobs := azure.NewMockBlobStorageClient(logger)
	auditLogger := audit.NewLogger(store, logger)

	logs := service.NewSkinLogService(store.SkinLogs(), nil, auditLogger, logger)
	products := service.NewProductService(store.Products(), nil, auditLogger, logger)
	analyses := service.NewAnalysisService(analysis.NewMockAnalyzer(7), photos, logs, auditLogger, 1<<20, logger)
	reports := service.NewReportService(logs, products, store.Reports(), reportBlobs, pdf.NewPDFGenerator(logger), auditLogger, logger)
	data := service.NewDataService(logs, products, reports, store, auditLogger, logger, photos, reportBlobs)

	server := &Server{
		HealthHandler:   NewHealthHandler(store, logger),
		SkinLogHandler:  NewSkinLogHandler(logs, analyses, logger),
		ProductHandler:  NewProductHandler(products, logger),
		InsightHandler:  NewInsightHandler(service.NewInsightService(store.SkinLogs(), store.Products(), logger), logger),
		AnalysisHandler: NewAnalysisHandler(analyses, logger),
		ReportHandler:   NewReportHandler(reports, logger),
		DataHandler:     NewDataHandler(data, logger),
	}

	verifier := auth.NewStaticVerifier(map[string]string{"alice-token": "alice", "bob-token": "bob"})
	router := gin.New()
	router.Use(middleware.AuthMiddleware(verifier, logger, "/health"))
	api.RegisterHandlers(router, server)

	return &testServer{router: router, photos: photos, reports: reportBlobs}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSkinLogEndpoints_CRUD(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/v1/logs", "alice-token", map[string]any{
		"condition":  "good",
		"concerns":   []string{"Acne"},
		"notes":      "new serum",
		"skin_score": 72,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[api.SkinLogResponse](t, w)
	assert.Equal(t, api.Good, created.Condition)
	assert.Equal(t, []string{"Acne"}, created.Concerns)
	require.NotNil(t, created.Notes)
	assert.Equal(t, "new serum", *created.Notes)

	path := "/api/v1/logs/" + created.Id.String()

	w = s.do(t, "PUT", path, "alice-token", map[string]any{"condition": "excellent"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, api.Excellent, decode[api.SkinLogResponse](t, w).Condition)

	w = s.do(t, "GET", "/api/v1/logs", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]api.SkinLogResponse](t, w), 1)

	// Another user cannot see or remove the entry.
	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", path, "bob-token", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, "DELETE", path, "bob-token", nil).Code)
	assert.Empty(t, decode[[]api.SkinLogResponse](t, s.do(t, "GET", "/api/v1/logs", "bob-token", nil)))

	assert.Equal(t, http.StatusNoContent, s.do(t, "DELETE", path, "alice-token", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", path, "alice-token", nil).Code)
}

func TestSkinLogEndpoints_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "unknown condition", body: map[string]any{"condition": "amazing"}},
		{name: "score above range", body: map[string]any{"condition": "good", "skin_score": 140}},
		{name: "malformed json", body: `{"condition": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, "POST", "/api/v1/logs", "alice-token", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", decode[api.ErrorResponse](t, w).Code)
		})
	}

	w := s.do(t, "GET", "/api/v1/logs/not-a-uuid", "alice-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndpoints_RequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/logs", "/api/v1/insights", "/api/v1/progress", "/api/v1/me/export"} {
		w := s.do(t, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	assert.Equal(t, http.StatusOK, s.do(t, "GET", "/health", "", nil).Code)
}

func TestInsightEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/v1/insights", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	insights := decode[[]api.InsightResponse](t, w)
	require.Len(t, insights, 1)
	assert.Equal(t, "welcome", insights[0].Id)
	assert.Equal(t, api.High, insights[0].Priority)

	w = s.do(t, "GET", "/api/v1/progress", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[api.ProgressResponse](t, w)
	assert.Zero(t, empty.TotalLogs)
	assert.Empty(t, empty.ScoreHistory)

	for _, condition := range []string{"poor", "fair", "good"} {
		require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/v1/logs", "alice-token", map[string]any{
			"condition": condition,
			"concerns":  []string{"Redness"},
		}).Code)
	}

	w = s.do(t, "GET", "/api/v1/progress", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode[api.ProgressResponse](t, w)
	assert.Equal(t, 3, progress.TotalLogs)
	assert.InDelta(t, 2.0, progress.AverageCondition, 1e-9)
	assert.Equal(t, "Fair", progress.ConditionLabel)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, []api.ConcernCount{{Concern: "Redness", Count: 3}}, progress.TopConcerns)

	w = s.do(t, "GET", "/api/v1/insights", "alice-token", nil)
	ids := make([]string, 0)
	for _, i := range decode[[]api.InsightResponse](t, w) {
		ids = append(ids, i.Id)
	}
	assert.Contains(t, ids, "add_products")
	assert.Contains(t, ids, "concern_pattern")
}

func TestInsightEndpoints_TimeZone(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/progress", "/api/v1/insights"} {
		w := s.do(t, "GET", path+"?tz=America%2FLos_Angeles", "alice-token", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)

		for _, tz := range []string{"Mars%2FOlympus_Mons", "Local", "..%2F..%2Fetc%2Fpasswd"} {
			w = s.do(t, "GET", path+"?tz="+tz, "alice-token", nil)
			require.Equal(t, http.StatusBadRequest, w.Code, "%s tz=%s", path, tz)
			assert.Equal(t, "VALIDATION_ERROR", decode[api.ErrorResponse](t, w).Code)
		}
	}
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/v1/products", "alice-token", map[string]any{
		"name":       "  Gentle Cleanser ",
		"brand":      "CeraVe",
		"category":   "cleanser",
		"start_date": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[api.ProductResponse](t, w)
	assert.Equal(t, "Gentle Cleanser", product.Name)
	assert.True(t, product.IsActive)
	assert.Equal(t, "2024-03-01", product.StartDate.String())

	path := "/api/v1/products/" + product.Id.String()
	assert.Equal(t, http.StatusNoContent, s.do(t, "PUT", path+"/active", "alice-token", map[string]any{"is_active": false}).Code)

	w = s.do(t, "GET", "/api/v1/products", "alice-token", nil)
	products := decode[[]api.ProductResponse](t, w)
	require.Len(t, products, 1)
	assert.False(t, products[0].IsActive)

	w = s.do(t, "PUT", path, "alice-token", map[string]any{"category": "serum"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.Serum, decode[api.ProductResponse](t, w).Category)

	assert.Equal(t, http.StatusBadRequest, s.do(t, "POST", "/api/v1/products", "alice-token", map[string]any{"name": "x", "category": "perfume"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, "DELETE", path, "bob-token", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, "DELETE", path, "alice-token", nil).Code)
}

func TestAnalysisEndpoint_SaveAndDownloadPhoto(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/v1/analysis", "alice-token", map[string]any{
		"image": base64.StdEncoding.EncodeToString(jpegImage),
		"save":  true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[api.AnalyzePhotoResponse](t, w)
	assert.GreaterOrEqual(t, result.Analysis.SkinScore, 70)
	assert.True(t, strings.HasPrefix(result.PhotoUri, "alice/"))
	require.NotNil(t, result.Log)
	assert.Equal(t, result.Condition, result.Log.Condition)
	assert.Len(t, result.Log.Concerns, len(result.Analysis.Concerns))

	photoPath := "/api/v1/logs/" + result.Log.Id.String() + "/photo"
	w = s.do(t, "GET", photoPath, "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, jpegImage, w.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", photoPath, "bob-token", nil).Code)
}

func TestAnalysisEndpoint_RejectsNonImage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/v1/analysis", "alice-token", map[string]any{
		"image": base64.StdEncoding.EncodeToString([]byte("plain text, not a photo")),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.photos.ListBlobs())
}

func TestReportEndpoints(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/v1/logs", "alice-token", map[string]any{"condition": "good"}).Code)

	w := s.do(t, "POST", "/api/v1/reports", "alice-token", map[string]any{
		"start_date": "2000-01-01",
		"end_date":   "2100-01-01",
		"user_name":  "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	report := decode[api.ReportResponse](t, w)

	w = s.do(t, "GET", "/api/v1/reports", "alice-token", nil)
	assert.Len(t, decode[[]api.ReportResponse](t, w), 1)

	w = s.do(t, "GET", "/api/v1/reports/"+report.Id.String(), "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=skin_report_21000101.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", "/api/v1/reports/"+report.Id.String(), "bob-token", nil).Code)

	w = s.do(t, "POST", "/api/v1/reports", "alice-token", map[string]any{"start_date": "2024-03-10", "end_date": "2024-03-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDataEndpoints_ExportAuditAndDelete(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/v1/logs", "alice-token", map[string]any{"condition": "fair", "notes": "dry patches"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, "POST", "/api/v1/analysis", "alice-token", map[string]any{
		"image": base64.StdEncoding.EncodeToString(jpegImage),
	}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/v1/logs", "bob-token", map[string]any{"condition": "good"}).Code)

	w := s.do(t, "GET", "/api/v1/me/export", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=skincare_journal_")
	export := decode[service.UserDataExport](t, w)
	assert.Equal(t, "alice", export.UserID)
	require.Len(t, export.SkinLogs, 1)
	assert.Equal(t, "dry patches", export.SkinLogs[0].Notes)

	w = s.do(t, "GET", "/api/v1/me/audit?limit=2", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]api.AuditEntry](t, w), 2)
	assert.Equal(t, http.StatusBadRequest, s.do(t, "GET", "/api/v1/me/audit?limit=0", "alice-token", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, "GET", "/api/v1/me/audit?limit=many", "alice-token", nil).Code)

	w = s.do(t, "DELETE", "/api/v1/me", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode[api.DeleteAccountResponse](t, w)
	assert.Equal(t, 1, deleted.SkinLogs)
	assert.Equal(t, 1, deleted.Blobs)
	assert.Empty(t, s.photos.ListBlobs())

	assert.Empty(t, decode[[]api.SkinLogResponse](t, s.do(t, "GET", "/api/v1/logs", "alice-token", nil)))
	assert.Len(t, decode[[]api.SkinLogResponse](t, s.do(t, "GET", "/api/v1/logs", "bob-token", nil)), 1)
}

type downPinger struct{}

func (downPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(downPinger{}, zap.NewNop()).GetHealth)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	health := decode[api.HealthResponse](t, w)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unreachable", health.Database)
}
