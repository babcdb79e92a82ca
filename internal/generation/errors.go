package generation

import (
	"errors"
	"fmt"

	"github.com/intelliexam/exam-api/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrGenerationUnavailable is returned when the retry budget or deadline is
	// exhausted. It matches domain.ErrGenerationUnavailable with errors.Is.
	ErrGenerationUnavailable = fmt.Errorf("%w: retry budget exhausted", domain.ErrGenerationUnavailable)

	// ErrInvalidResponse is returned when the LLM response is missing or has no content
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyReply is returned when the LLM answers with blank text
	ErrEmptyReply = errors.New("empty reply from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters.
	// It is permanent and never retried.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during question generation")

	// ErrInvalidConfig is returned when the client or retry policy configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyPrompt is returned when Call is invoked without a prompt
	ErrEmptyPrompt = fmt.Errorf("%w: prompt cannot be empty", domain.ErrInvalidArgument)
)
