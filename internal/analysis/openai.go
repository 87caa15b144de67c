package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// VisionClient answers a prompt about an image
type VisionClient interface {
	DescribeImage(ctx context.Context, systemPrompt, userPrompt string, image []byte, mimeType string) (string, error)
}

const visionSystemPrompt = `You are a dermatology assistant that grades facial skin from a selfie.
Answer with JSON only, no prose, using exactly this shape:
{"skinScore": 0-100, "skinType": "Oily|Dry|Combination|Normal|Sensitive",
 "detectedFeatures": {"hydration": 0-100, "acne": 0-100, "texture": 0-100, "redness": 0-100,
  "darkSpots": 0-100, "wrinkles": 0-100, "pores": 0-100, "oiliness": 0-100, "sunDamage": 0-100},
 "concerns": ["most prominent concern first"],
 "recommendations": ["short actionable tips"]}`

const visionUserPrompt = "Analyze the skin in this photo."

// OpenAIAnalyzer grades photos with a vision-capable chat model
type OpenAIAnalyzer struct {
	client VisionClient
	logger *zap.Logger
}

// NewOpenAIAnalyzer creates an OpenAIAnalyzer
func NewOpenAIAnalyzer(client VisionClient, logger *zap.Logger) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: client, logger: logger}
}

// Analyze asks the model for an analysis and maps it like a webhook answer
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, userID string, image []byte) (*model.SkinAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("no image provided: %w", model.ErrInvalidInput)
	}

	response, err := a.client.DescribeImage(ctx, visionSystemPrompt, visionUserPrompt, image, http.DetectContentType(image))
	if err != nil {
		a.logger.Error("vision model request failed", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to analyze photo: %w", err)
	}

	raw, err := parseModelJSON(response)
	if err != nil {
		a.logger.Error("failed to parse vision model response",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("response", truncate(response, 200)),
		)
		return nil, err
	}

	return raw.toModel(), nil
}

// parseModelJSON strips the markdown fences chat models like to add
func parseModelJSON(response string) (*rawAnalysis, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
