package mocks

import (
	"context"
	"sync"

	"github.com/intelliexam/exam-api/internal/retrieval"
)

// MockRetriever implements retrieval.Retriever for testing
type MockRetriever struct {
	// SearchFn allows test cases to mock the Search behavior
	SearchFn func(ctx context.Context, query string, corpus retrieval.CorpusID, k int) ([]retrieval.Passage, error)

	// SampleFn allows test cases to mock the Sample behavior
	SampleFn func(ctx context.Context, n int, corpus retrieval.CorpusID) ([]retrieval.Passage, error)

	// Default response values
	Passages []retrieval.Passage
	Err      error

	mu      sync.Mutex
	queries []string
	samples int
}

// Search implements the retrieval.Retriever interface
func (m *MockRetriever) Search(
	ctx context.Context,
	query string,
	corpus retrieval.CorpusID,
	k int,
) ([]retrieval.Passage, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, corpus, k)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Passages) > k {
		return m.Passages[:k], nil
	}
	return m.Passages, nil
}

// Sample implements the retrieval.Retriever interface
func (m *MockRetriever) Sample(ctx context.Context, n int, corpus retrieval.CorpusID) ([]retrieval.Passage, error) {
	m.mu.Lock()
	m.samples++
	m.mu.Unlock()

	if m.SampleFn != nil {
		return m.SampleFn(ctx, n, corpus)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Passages) > n {
		return m.Passages[:n], nil
	}
	return m.Passages, nil
}

// Queries returns the search queries received, in arrival order
func (m *MockRetriever) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// SampleCount returns how many times Sample was called
func (m *MockRetriever) SampleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samples
}
