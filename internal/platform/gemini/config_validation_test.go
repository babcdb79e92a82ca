package gemini

import (
	"context"
	"testing"

	"github.com/intelliexam/exam-api/internal/generation"
	"github.com/intelliexam/exam-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	ctx := context.Background()

	assert.NoError(t, validateConfig(ctx, log, testLLMConfig()))

	cfg := testLLMConfig()
	cfg.GeminiAPIKey = ""
	assert.ErrorIs(t, validateConfig(ctx, log, cfg), generation.ErrInvalidConfig)
	logger.AssertLogContains(t, buf, "Missing Gemini API key")

	cfg = testLLMConfig()
	cfg.ModelName = ""
	assert.ErrorIs(t, validateConfig(ctx, log, cfg), generation.ErrInvalidConfig)

	cfg = testLLMConfig()
	cfg.Temperature = 3
	assert.ErrorIs(t, validateConfig(ctx, log, cfg), generation.ErrInvalidConfig)
}
