package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/intelliexam/exam-api/internal/generation"
	"google.golang.org/genai"
)

// Error definitions for the gemini package.
var (
	// ErrEmptyPrompt is returned when a session is asked to send blank text.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrEmptyEmbedding is returned when the embedding response carries no vector.
	ErrEmptyEmbedding = errors.New("embedding response contained no values")
)

// classifyAPIError maps a genai error onto the generation error taxonomy.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: gemini rejected credentials (%d): %v",
				generation.ErrInvalidConfig, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("%w: gemini API error (%d %s): %v",
			generation.ErrTransientFailure, apiErr.Code, apiErr.Status, apiErr.Message)
	}
	return fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
}
