package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// WebhookAnalyzer relays photos to an external analysis workflow over HTTP
type WebhookAnalyzer struct {
	url        string
	client     *http.Client
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
	now        func() time.Time
}

// NewWebhookAnalyzer creates a WebhookAnalyzer
func NewWebhookAnalyzer(url string, timeout time.Duration, maxRetries int, logger *zap.Logger) (*WebhookAnalyzer, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL not configured")
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &WebhookAnalyzer{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
		now:        time.Now,
	}, nil
}

type webhookRequest struct {
	UserID    string `json:"userId"`
	Image     string `json:"image"`
	Timestamp string `json:"timestamp"`
}

// statusError is a non-2xx answer from the webhook
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webhook failed: %d - %s", e.status, e.body)
}

// Analyze posts the image and maps the workflow's answer
func (w *WebhookAnalyzer) Analyze(ctx context.Context, userID string, image []byte) (*model.SkinAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("no image provided: %w", model.ErrInvalidInput)
	}

	body, err := json.Marshal(webhookRequest{
		UserID:    userID,
		Image:     base64.StdEncoding.EncodeToString(image),
		Timestamp: w.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		if attempt > 0 {
			delay := w.baseDelay * time.Duration(1<<uint(attempt-1))
			w.logger.Info("retrying analysis webhook",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		raw, err := w.post(ctx, body)
		if err == nil {
			w.logger.Info("analysis received from webhook",
				zap.String("user_id", userID),
				zap.Int("attempts", attempt+1),
			)
			return raw.toModel(), nil
		}

		lastErr = err
		if !isRetryable(ctx, err) {
			break
		}
		w.logger.Warn("analysis webhook failed, will retry", zap.Error(err), zap.Int("attempt", attempt+1))
	}

	w.logger.Error("analysis webhook failed", zap.Error(lastErr), zap.String("user_id", userID))
	return nil, lastErr
}

func (w *WebhookAnalyzer) post(ctx context.Context, body []byte) (*rawAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach webhook: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{status: resp.StatusCode, body: string(payload)}
	}

	var raw rawAnalysis
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &raw, nil
}

// isRetryable retries transport failures, rate limits and server errors
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrInvalidResponse) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	return true
}
