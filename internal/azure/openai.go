package azure

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"go.uber.org/zap"
)

const defaultAPIVersion = "2024-08-01-preview"

// VisionOptions tunes a single vision request.
type VisionOptions struct {
	MaxTokens   int64
	Temperature float64
}

// DefaultVisionOptions keeps answers short and close to deterministic so
// the JSON the analyzer parses stays stable between calls.
var DefaultVisionOptions = VisionOptions{MaxTokens: 800, Temperature: 0.2}

// OpenAIClient talks to an Azure OpenAI vision deployment.
type OpenAIClient struct {
	client     *openai.Client
	deployment string
	options    VisionOptions
	logger     *zap.Logger
	attempts   int
	backoff    time.Duration
}

func NewOpenAIClient(endpoint, apiKey, deployment string, logger *zap.Logger) (*OpenAIClient, error) {
	switch {
	case endpoint == "":
		return nil, errors.New("azure openai: endpoint is required")
	case apiKey == "":
		return nil, errors.New("azure openai: api key is required")
	case deployment == "":
		return nil, errors.New("azure openai: deployment is required")
	}

	client := openai.NewClient(
		azure.WithEndpoint(endpoint, defaultAPIVersion),
		azure.WithAPIKey(apiKey),
	)

	return &OpenAIClient{
		client:     &client,
		deployment: deployment,
		options:    DefaultVisionOptions,
		logger:     logger.Named("azure-openai"),
		attempts:   3,
		backoff:    time.Second,
	}, nil
}

// DescribeImage sends one inline image with a system and user prompt and
// returns the text of the first choice.
func (c *OpenAIClient) DescribeImage(ctx context.Context, systemPrompt, userPrompt string, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("azure openai: image is required")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(userPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageDataURL(image, mimeType),
				}),
			}),
		},
		MaxCompletionTokens: openai.Int(c.options.MaxTokens),
		Temperature:         openai.Float(c.options.Temperature),
	}

	return c.send(ctx, params)
}

// Complete runs a plain chat request with the client's retry policy.
func (c *OpenAIClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	return c.send(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.deployment),
		Messages: messages,
	})
}

func (c *OpenAIClient) send(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	started := time.Now()

	var answer string
	attempts, err := retryWithBackoff(ctx, c.attempts, c.backoff, isRetryable, func(ctx context.Context) error {
		var callErr error
		answer, callErr = c.once(ctx, params)
		if callErr != nil {
			c.logger.Warn("vision request attempt failed", zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		c.logger.Error("vision request gave up",
			zap.Error(err),
			zap.Int("attempts", attempts),
			zap.Duration("elapsed", time.Since(started)),
		)
		return "", fmt.Errorf("azure openai: %w", err)
	}

	c.logger.Debug("vision request done",
		zap.Int("attempts", attempts),
		zap.Duration("elapsed", time.Since(started)),
	)
	return answer, nil
}

func (c *OpenAIClient) once(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}

	c.logger.Info("token usage",
		zap.String("deployment", c.deployment),
		zap.Int64("prompt", resp.Usage.PromptTokens),
		zap.Int64("completion", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

func imageDataURL(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// retryWithBackoff calls fn up to attempts times, doubling the wait after
// each retryable failure. It returns how many calls were made.
func retryWithBackoff(ctx context.Context, attempts int, base time.Duration, retryable func(error) bool, fn func(context.Context) error) (int, error) {
	if attempts < 1 {
		attempts = 1
	}

	wait := base
	for n := 1; ; n++ {
		err := fn(ctx)
		if err == nil {
			return n, nil
		}
		if n == attempts || !retryable(err) {
			return n, err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return n, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		wait *= 2
	}
}

// isRetryable treats throttling, server faults and transport errors as
// transient. Cancellation and client errors are final.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	msg := strings.ToLower(err.Error())
	for _, final := range []string{"unauthorized", "authentication", "invalid", "bad request", "401", "400"} {
		if strings.Contains(msg, final) {
			return false
		}
	}
	return true
}
