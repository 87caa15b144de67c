// Package auth resolves bearer tokens to user ids.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vcscsvcscs/skincare-journal/internal/config"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// TokenVerifier maps an access token to the id of the user it was issued to
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// SupabaseVerifier asks the Supabase auth API who owns a token
type SupabaseVerifier struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  *zap.Logger
}

// NewSupabaseVerifier creates a SupabaseVerifier for the project at baseURL
func NewSupabaseVerifier(baseURL, anonKey string, logger *zap.Logger) *SupabaseVerifier {
	return &SupabaseVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type supabaseUser struct {
	ID string `json:"id"`
}

// Verify calls GET /auth/v1/user with the caller's token
func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing token: %w", model.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.anonKey)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("supabase auth request failed", zap.Error(err))
		return "", fmt.Errorf("failed to reach auth provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("token rejected: %w", model.ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, body)
	}

	var user supabaseUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("auth provider returned no user: %w", model.ErrUnauthorized)
	}

	return user.ID, nil
}

// StaticVerifier resolves tokens from a fixed map. Development and tests only.
type StaticVerifier struct {
	tokens map[string]string
}

// NewStaticVerifier creates a StaticVerifier from a token to user id map
func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	copied := make(map[string]string, len(tokens))
	for k, v := range tokens {
		copied[k] = v
	}
	return &StaticVerifier{tokens: copied}
}

func (v *StaticVerifier) Verify(ctx context.Context, token string) (string, error) {
	userID, ok := v.tokens[token]
	if !ok || token == "" {
		return "", fmt.Errorf("unknown token: %w", model.ErrUnauthorized)
	}
	return userID, nil
}

// New builds the verifier selected by cfg.Provider
func New(cfg config.AuthConfig, logger *zap.Logger) (TokenVerifier, error) {
	switch cfg.Provider {
	case "supabase":
		return NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseKey, logger), nil
	case "static":
		logger.Warn("using static token authentication", zap.Int("tokens", len(cfg.StaticTokens)))
		return NewStaticVerifier(cfg.StaticTokens), nil
	}
	return nil, fmt.Errorf("unsupported auth provider: %s", cfg.Provider)
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
