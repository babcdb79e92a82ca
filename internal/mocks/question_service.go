package mocks

import (
	"context"
	"sync"

	"github.com/intelliexam/exam-api/internal/service"
)

// MockQuestionService implements service.QuestionService for testing
type MockQuestionService struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req service.QuestionSetRequest) (service.QuestionSetResult, error)

	// Default response values
	Result service.QuestionSetResult
	Err    error

	mu       sync.Mutex
	requests []service.QuestionSetRequest
}

// Generate implements the service.QuestionService interface
func (m *MockQuestionService) Generate(
	ctx context.Context,
	req service.QuestionSetRequest,
) (service.QuestionSetResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Result, m.Err
}

// Requests returns the requests received, in call order
func (m *MockQuestionService) Requests() []service.QuestionSetRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.QuestionSetRequest(nil), m.requests...)
}
