package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/intelliexam/exam-api/internal/config"
	"google.golang.org/genai"
)

// contentEmbedder is the subset of genai.Models used for embeddings.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder turns query text into vectors with a Gemini embedding model.
type Embedder struct {
	models     contentEmbedder
	model      string
	dimensions int32
	logger     *slog.Logger
}

// NewEmbedder creates an embedder backed by client.Models.
func NewEmbedder(client *genai.Client, cfg config.LLMConfig, logger *slog.Logger) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("gemini client cannot be nil")
	}
	return newEmbedder(client.Models, cfg, logger)
}

func newEmbedder(models contentEmbedder, cfg config.LLMConfig, logger *slog.Logger) (*Embedder, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.EmbeddingModel == "" {
		return nil, errors.New("embedding model cannot be empty")
	}
	return &Embedder{
		models:     models,
		model:      cfg.EmbeddingModel,
		dimensions: int32(max(cfg.EmbeddingDimensions, 0)),
		logger:     logger.With("component", "gemini_embedder", "model", cfg.EmbeddingModel),
	}, nil
}

// Embed returns the embedding of text as a retrieval query.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	cfg := &genai.EmbedContentConfig{TaskType: "RETRIEVAL_QUERY"}
	if e.dimensions > 0 {
		dims := e.dimensions
		cfg.OutputDimensionality = &dims
	}

	resp, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, ErrEmptyEmbedding
	}

	e.logger.DebugContext(ctx, "Embedded query", "text_length", len(text), "dimensions", len(resp.Embeddings[0].Values))
	return resp.Embeddings[0].Values, nil
}
