package service_test

import (
	"context"
	"io"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/retrieval"
	"github.com/stretchr/testify/mock"
)

// MockExtractor mocks the Extractor interface
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) ([]string, error) {
	args := m.Called(ctx, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockContentSelector mocks the ContentSelector interface
type MockContentSelector struct {
	mock.Mock
}

func (m *MockContentSelector) Select(
	ctx context.Context,
	chunks []string,
	corpus retrieval.CorpusID,
	mode domain.InputMode,
) ([]domain.ContentUnit, error) {
	args := m.Called(ctx, chunks, corpus, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContentUnit), args.Error(1)
}

func (m *MockContentSelector) SelectSampled(
	ctx context.Context,
	chunks []string,
	corpus retrieval.CorpusID,
	mode domain.InputMode,
) ([]domain.ContentUnit, error) {
	args := m.Called(ctx, chunks, corpus, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContentUnit), args.Error(1)
}

// unitsFor grounds every chunk on itself, the way a selector with a perfect
// corpus would.
func unitsFor(chunks []string) []domain.ContentUnit {
	units := make([]domain.ContentUnit, len(chunks))
	for i, c := range chunks {
		units[i] = domain.ContentUnit{Content: c, Context: c}
	}
	return units
}
