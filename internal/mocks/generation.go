package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/intelliexam/exam-api/internal/generation"
)

// MockSession implements generation.Session for testing
type MockSession struct {
	// SendFn allows test cases to mock the Send behavior
	SendFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Reply string
	Err   error

	mu      sync.Mutex
	prompts []string
}

// Send implements the generation.Session interface
func (m *MockSession) Send(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, prompt)
	}
	return m.Reply, m.Err
}

// Prompts returns the prompts sent through this session
func (m *MockSession) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// MockSessionOpener implements generation.SessionOpener for testing
type MockSessionOpener struct {
	// OpenFn allows test cases to mock the Open behavior
	OpenFn func(ctx context.Context) (generation.Session, error)

	// Session is returned when OpenFn is nil
	Session generation.Session
	Err     error

	// Call tracking for verification
	OpenCalls struct {
		mu    sync.Mutex
		Count int
	}
}

// Open implements the generation.SessionOpener interface
func (m *MockSessionOpener) Open(ctx context.Context) (generation.Session, error) {
	m.OpenCalls.mu.Lock()
	m.OpenCalls.Count++
	m.OpenCalls.mu.Unlock()

	if m.OpenFn != nil {
		return m.OpenFn(ctx)
	}
	return m.Session, m.Err
}

// OpenCount returns how many sessions were opened
func (m *MockSessionOpener) OpenCount() int {
	m.OpenCalls.mu.Lock()
	defer m.OpenCalls.mu.Unlock()
	return m.OpenCalls.Count
}

// MockGenerationClient implements generation.Client for testing
type MockGenerationClient struct {
	// CallFn allows test cases to mock the Call behavior
	CallFn func(ctx context.Context, prompt string, timeout time.Duration) (string, error)

	// Default response values
	Reply string
	Err   error

	// Call tracking for verification
	Calls struct {
		mu       sync.Mutex
		Count    int
		Prompts  []string
		Timeouts []time.Duration
	}
}

// Call implements the generation.Client interface
func (m *MockGenerationClient) Call(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	m.Calls.mu.Lock()
	m.Calls.Count++
	m.Calls.Prompts = append(m.Calls.Prompts, prompt)
	m.Calls.Timeouts = append(m.Calls.Timeouts, timeout)
	m.Calls.mu.Unlock()

	if m.CallFn != nil {
		return m.CallFn(ctx, prompt, timeout)
	}
	return m.Reply, m.Err
}

// CallCount returns the number of Call invocations
func (m *MockGenerationClient) CallCount() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return m.Calls.Count
}

// RecordedPrompts returns a copy of every prompt received, in call order
func (m *MockGenerationClient) RecordedPrompts() []string {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return append([]string(nil), m.Calls.Prompts...)
}

// RecordedTimeouts returns a copy of every timeout received, in call order
func (m *MockGenerationClient) RecordedTimeouts() []time.Duration {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return append([]time.Duration(nil), m.Calls.Timeouts...)
}

// Reset resets the call tracking state
func (m *MockGenerationClient) Reset() {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()

	m.Calls.Count = 0
	m.Calls.Prompts = nil
	m.Calls.Timeouts = nil
}
