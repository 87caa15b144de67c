package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func newTestWebhook(t *testing.T, handler http.HandlerFunc) *WebhookAnalyzer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	w, err := NewWebhookAnalyzer(srv.URL, 5*time.Second, 3, zap.NewNop())
	require.NoError(t, err)
	w.baseDelay = time.Millisecond
	w.now = func() time.Time { return fixedNow }
	// Idle keep-alive connections would otherwise outlive the test.
	t.Cleanup(w.client.CloseIdleConnections)
	return w
}

func TestWebhookAnalyzer_PostsImage(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	var got webhookRequest

	w := newTestWebhook(t, func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		rw.Write([]byte(`{"skinScore": 88, "skinType": "Dry", "concerns": ["Dryness"]}`))
	})

	a, err := w.Analyze(context.Background(), "user-1", image)
	require.NoError(t, err)

	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, base64.StdEncoding.EncodeToString(image), got.Image)
	assert.Equal(t, "2024-03-15T09:30:00Z", got.Timestamp)
	assert.Equal(t, 88, a.SkinScore)
	assert.Equal(t, "Dry", a.SkinType)
	assert.Equal(t, "moderate", a.Concerns[0].Severity)
}

func TestWebhookAnalyzer_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	w := newTestWebhook(t, func(rw http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			rw.WriteHeader(http.StatusBadGateway)
			return
		}
		rw.Write([]byte(`{"skinScore": 70}`))
	})

	a, err := w.Analyze(context.Background(), "user-1", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 70, a.SkinScore)
}

func TestWebhookAnalyzer_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	w := newTestWebhook(t, func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		rw.WriteHeader(http.StatusBadRequest)
		rw.Write([]byte("bad image"))
	})

	_, err := w.Analyze(context.Background(), "user-1", []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook failed: 400 - bad image")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookAnalyzer_InvalidJSON(t *testing.T) {
	var calls atomic.Int32
	w := newTestWebhook(t, func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		rw.Write([]byte("<html>oops</html>"))
	})

	_, err := w.Analyze(context.Background(), "user-1", []byte("img"))
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookAnalyzer_EmptyImage(t *testing.T) {
	w := newTestWebhook(t, func(rw http.ResponseWriter, r *http.Request) {
		t.Fatal("webhook must not be called")
	})

	_, err := w.Analyze(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestWebhookAnalyzer_ContextCancelledDuringBackoff(t *testing.T) {
	w := newTestWebhook(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusServiceUnavailable)
	})
	w.baseDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := w.Analyze(ctx, "user-1", []byte("img"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewWebhookAnalyzer_RequiresURL(t *testing.T) {
	_, err := NewWebhookAnalyzer("", time.Second, 3, zap.NewNop())
	assert.Error(t, err)
}
