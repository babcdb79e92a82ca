package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/intelliexam/exam-api/internal/config"
	"github.com/intelliexam/exam-api/internal/generation"
)

// validateConfig checks the LLM settings needed to talk to Gemini.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key", "error", "GeminiAPIKey is empty")
		return fmt.Errorf("%w: GeminiAPIKey cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		logger.ErrorContext(ctx, "Missing model name", "error", "ModelName is empty")
		return fmt.Errorf("%w: ModelName cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("%w: Temperature must be within [0, 2], got %g",
			generation.ErrInvalidConfig, cfg.Temperature)
	}

	if cfg.EmbeddingDimensions < 0 {
		logger.WarnContext(ctx, "Invalid EmbeddingDimensions value",
			"value", cfg.EmbeddingDimensions,
			"action", "using model default")
	}

	return nil
}
