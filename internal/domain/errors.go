// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidArgument is returned for malformed requests: both or neither
	// question kind selected, both or neither contextualization mode selected,
	// negative counts. It is surfaced immediately and never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrGenerationUnavailable is returned when the retry budget or deadline
	// for a generation call has been exhausted.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrMalformedReply is returned when a generation reply cannot be parsed
	// into the expected Output structure.
	ErrMalformedReply = errors.New("malformed generation reply")

	// ErrInvalidQuestionKind is returned when a question kind is not recognised.
	ErrInvalidQuestionKind = errors.New("invalid question kind")

	// ErrInvalidContextMode is returned when a contextualization mode is not recognised.
	ErrInvalidContextMode = errors.New("invalid contextualization mode")

	// ErrInvalidInputMode is returned when an inbound input mode flag is not recognised.
	ErrInvalidInputMode = errors.New("invalid input mode")

	// ErrEmptyQuestion is returned when a record is built without question text.
	ErrEmptyQuestion = errors.New("question text cannot be empty")
)
