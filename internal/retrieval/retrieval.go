// Package retrieval defines the boundary to the reference-content store that
// grounds generated questions. Implementations own embedding and similarity
// search; callers only see ranked passages.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/intelliexam/exam-api/internal/domain"
)

// CorpusID names one course's reference corpus (the module code).
type CorpusID string

// Passage is one retrieved reference text.
type Passage struct {
	Content string  `bson:"content" json:"content"`
	Score   float64 `bson:"score" json:"score"`
}

// Retriever finds reference passages in a corpus.
type Retriever interface {
	// Search returns up to k passages ranked by relevance to query, best first.
	Search(ctx context.Context, query string, corpus CorpusID, k int) ([]Passage, error)

	// Sample returns n passages drawn at random from the corpus.
	Sample(ctx context.Context, n int, corpus CorpusID) ([]Passage, error)
}

// Embedder converts query text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ParseCorpusID validates a raw module code. Codes become database names, so
// separators and other characters MongoDB rejects are refused.
func ParseCorpusID(raw string) (CorpusID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: module code cannot be empty", domain.ErrInvalidArgument)
	}
	if len(id) > 63 || strings.ContainsAny(id, `/\. "$*<>:|?`) {
		return "", fmt.Errorf("%w: invalid module code %q", domain.ErrInvalidArgument, raw)
	}
	return CorpusID(id), nil
}
