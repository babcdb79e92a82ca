package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/orchestrator"
	"github.com/intelliexam/exam-api/internal/selection"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var maxBytes *http.MaxBytesError
	var partial *orchestrator.PartialError

	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest

	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, selection.ErrInsufficientMatches):
		return http.StatusUnprocessableEntity

	// Interrupted generation
	case errors.As(err, &partial):
		return http.StatusGatewayTimeout

	// Upstream generation errors
	case errors.Is(err, domain.ErrMalformedReply):
		return http.StatusBadGateway

	// A deadline inside an unavailable-generation error is still a timeout
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, domain.ErrGenerationUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var maxBytes *http.MaxBytesError
	var partial *orchestrator.PartialError

	switch {
	case errors.Is(err, domain.ErrInvalidInputMode):
		return "Invalid input-type: must be one of context, format, grounding"

	case errors.Is(err, domain.ErrInvalidArgument):
		return "Invalid request: " + argumentDetail(err)

	case errors.As(err, &maxBytes):
		return fmt.Sprintf("Upload exceeds the %d byte limit", maxBytes.Limit)

	case errors.Is(err, selection.ErrInsufficientMatches):
		return "Not enough reference content for this module"

	case errors.As(err, &partial):
		return "Question generation timed out before completing"

	case errors.Is(err, domain.ErrMalformedReply):
		return "The generation service returned an unreadable reply"

	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"

	case errors.Is(err, domain.ErrGenerationUnavailable):
		return "Question generation is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// argumentDetail keeps the innermost, caller-facing part of an invalid-argument
// message, dropping the wrapping prefixes added on the way up.
func argumentDetail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrInvalidArgument.Error()+": "); i >= 0 {
		msg = msg[i+len(domain.ErrInvalidArgument.Error())+2:]
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", paramName(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// paramName maps struct fields back to the form parameter names clients send.
func paramName(field string) string {
	switch field {
	case "OpenEndedCount":
		return paramOpenEndedCount
	case "MultipleChoiceCount":
		return paramMultipleChoiceCount
	case "ModuleCode":
		return paramModuleCode
	case "InputType":
		return paramInputType
	case "MaxAnswerLength":
		return paramMaxAnswerLength
	case "Format":
		return paramFormat
	case "ContentSource":
		return paramContentSource
	default:
		return field
	}
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gte":
		return "too small"
	case "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
