package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/intelliexam/exam-api/internal/config"
	"github.com/intelliexam/exam-api/internal/generation"
	"google.golang.org/genai"
)

// NewClient validates cfg and creates a genai client for the Gemini API backend.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*genai.Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}
	return client, nil
}
