// Package service provides the application-level question-set service.
package service

import (
	"errors"
	"fmt"

	"github.com/intelliexam/exam-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrNoDocuments indicates a request without any document.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoDocuments = fmt.Errorf("%w: at least one document is required", domain.ErrInvalidArgument)

	// ErrNoContent indicates that no document yielded a usable chunk.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoContent = fmt.Errorf("%w: documents contain no usable text", domain.ErrInvalidArgument)
)

// QuestionServiceError wraps errors from the question service with context.
type QuestionServiceError struct {
	// Operation is the stage that failed (e.g., "extract", "select", "generate_open_ended")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for QuestionServiceError.
func (e *QuestionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("question service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *QuestionServiceError) Unwrap() error {
	return e.Err
}

// NewQuestionServiceError creates a new QuestionServiceError.
// Invalid-argument errors are returned unwrapped so callers see the
// original message.
func NewQuestionServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		return err
	}
	return &QuestionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
