package reply

import (
	"fmt"

	"github.com/intelliexam/exam-api/internal/domain"
)

// MalformedReplyError identifies the reply that could not be parsed.
type MalformedReplyError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("reply %d: %v", e.Index, e.Err)
}

// Unwrap exposes both domain.ErrMalformedReply and the parse error.
func (e *MalformedReplyError) Unwrap() []error {
	return []error{domain.ErrMalformedReply, e.Err}
}
