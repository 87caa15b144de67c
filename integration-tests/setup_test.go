package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vcscsvcscs/skincare-journal/internal/analysis"
	"github.com/vcscsvcscs/skincare-journal/internal/app"
	"github.com/vcscsvcscs/skincare-journal/internal/auth"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/internal/config"
	"go.uber.org/zap"
)

// tokens maps the bearer tokens the fake identity provider accepts to user ids
var tokens = map[string]string{
	"token-alice": "8d3c1f8e-6b55-4a5e-9d3f-0b8f4f1f2a01",
	"token-bob":   "0f6b7a52-2c1e-4d4f-8f0b-6a7b8c9d0e02",
}

// fakeSupabase answers GET /auth/v1/user like the identity provider
func fakeSupabase(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		userID, ok := tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": userID, "email": "user@example.com"})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fakeWebhook plays the analysis workflow; the first call fails to exercise retries
func fakeWebhook(t *testing.T) (*httptest.Server, *atomic.Int32) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		var req struct {
			UserID string `json:"userId"`
			Image  string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"skinScore": 64,
			"skinType":  "Combination",
			"concerns":  []string{"Acne", "Redness"},
			"detectedFeatures": map[string]any{"acne": 35, "redness": 22},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// startPostgres returns the connection string of a throwaway database
func startPostgres(t *testing.T) string {
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("skincare_it"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connString
}

type environment struct {
	router       *gin.Engine
	photos       *azure.MockBlobStorageClient
	reports      *azure.MockBlobStorageClient
	webhookCalls *atomic.Int32
}

// newEnvironment wires the whole application the way main does, against the
// given database driver, a fake identity provider and a fake analysis webhook
func newEnvironment(t *testing.T, driver string) *environment {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := zap.NewNop()

	supabase := fakeSupabase(t)
	webhook, calls := fakeWebhook(t)

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test", MaxImageBytes: 1 << 20},
		Database: config.DatabaseConfig{
			Driver:       driver,
			SQLitePath:   filepath.Join(t.TempDir(), "journal.db"),
			MaxOpenConns: 5,
		},
		Analyzer: config.AnalyzerConfig{Backend: "webhook", WebhookURL: webhook.URL, Timeout: 5 * time.Second, MaxRetries: 2},
		Auth:     config.AuthConfig{Provider: "supabase", SupabaseURL: supabase.URL, SupabaseKey: "anon-key"},
		Security: config.SecurityConfig{EncryptionKey: "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="},
	}
	if driver == "postgres" {
		cfg.Database.URL = startPostgres(t)
	}
	require.NoError(t, cfg.Validate())

	store, err := app.OpenStore(ctx, cfg.Database, logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	photos := azure.NewMockBlobStorageClient(logger)
	reports := azure.NewMockBlobStorageClient(logger)

	analyzer, err := analysis.New(cfg.Analyzer, logger)
	require.NoError(t, err)
	verifier, err := auth.New(cfg.Auth, logger)
	require.NoError(t, err)

	services, err := app.NewServices(cfg, store, photos, reports, analyzer, logger)
	require.NoError(t, err)

	router, err := app.NewRouter(services, store, verifier, logger)
	require.NoError(t, err)

	return &environment{router: router, photos: photos, reports: reports, webhookCalls: calls}
}

// backends runs fn against sqlite always and against postgres unless -short
func backends(t *testing.T, fn func(t *testing.T, env *environment)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newEnvironment(t, "sqlite"))
	})
	t.Run("postgres", func(t *testing.T) {
		if testing.Short() {
			t.Skip("Skipping container test in short mode")
		}
		fn(t, newEnvironment(t, "postgres"))
	})
}

func (e *environment) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
