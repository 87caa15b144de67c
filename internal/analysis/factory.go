package analysis

import (
	"fmt"

	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/internal/config"
	"go.uber.org/zap"
)

// New builds the analyzer selected by cfg.Backend
func New(cfg config.AnalyzerConfig, logger *zap.Logger) (Analyzer, error) {
	switch cfg.Backend {
	case "", "mock":
		logger.Info("using mock skin analyzer", zap.Int64("seed", cfg.MockSeed))
		return NewMockAnalyzer(cfg.MockSeed), nil
	case "webhook":
		logger.Info("using webhook skin analyzer", zap.String("url", cfg.WebhookURL))
		return NewWebhookAnalyzer(cfg.WebhookURL, cfg.Timeout, cfg.MaxRetries, logger)
	case "openai":
		client, err := azure.NewOpenAIClient(cfg.OpenAI.Endpoint, cfg.OpenAI.APIKey, cfg.OpenAI.Deployment, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		logger.Info("using azure openai skin analyzer", zap.String("deployment", cfg.OpenAI.Deployment))
		return NewOpenAIAnalyzer(client, logger), nil
	}
	return nil, fmt.Errorf("unsupported analyzer backend: %s", cfg.Backend)
}
