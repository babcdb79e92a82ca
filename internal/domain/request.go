package domain

import (
	"fmt"
	"strings"
)

// QuestionKind identifies the shape of a generated question.
type QuestionKind string

// Possible question kinds
const (
	KindOpenEnded      QuestionKind = "open_ended"
	KindMultipleChoice QuestionKind = "multiple_choice"
)

// ContextMode selects how document-derived text is used when prompting.
type ContextMode string

// Possible contextualization modes
const (
	// ModeComplimentaryInfo uses the text as supplementary information that
	// keeps generated questions on topic.
	ModeComplimentaryInfo ContextMode = "complimentary_info"

	// ModeStyleFormat uses the text as a sample whose question format the
	// generated questions must mimic.
	ModeStyleFormat ContextMode = "style_format"
)

// InputMode is the inbound flag selecting how document text maps to
// ContentUnit.Context.
type InputMode string

// Possible input modes, matching the values sent by the web client.
const (
	InputModeContext   InputMode = "context"
	InputModeFormat    InputMode = "format"
	InputModeGrounding InputMode = "grounding"
)

// DefaultMaxAnswerLength is the open-ended answer length cap in words.
const DefaultMaxAnswerLength = 50

// ParseInputMode converts a raw flag into an InputMode.
func ParseInputMode(raw string) (InputMode, error) {
	switch mode := InputMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case InputModeContext, InputModeFormat, InputModeGrounding:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidArgument, ErrInvalidInputMode, raw)
	}
}

// ContextMode returns the contextualization mode used for prompts built from
// units selected in this input mode.
func (m InputMode) ContextMode() ContextMode {
	if m == InputModeFormat {
		return ModeStyleFormat
	}
	return ModeComplimentaryInfo
}

// Contextualization carries the active contextualization mode. Exactly one
// mode is active per request.
type Contextualization struct {
	Mode ContextMode
}

// GenerationRequest describes one generation pass over a sequence of
// content units.
type GenerationRequest struct {
	Kind              QuestionKind
	Quota             int
	MaxAnswerLength   int
	Contextualization Contextualization
}

// NewGenerationRequest builds a request from the flag-style arguments used by
// callers that select kind and mode with booleans. Both or neither flag of
// either pair is rejected.
func NewGenerationRequest(
	openEnded, multipleChoice bool,
	complimentaryInfo, styleFormat bool,
	quota, maxAnswerLength int,
) (GenerationRequest, error) {
	if openEnded == multipleChoice {
		return GenerationRequest{}, fmt.Errorf(
			"%w: exactly one of open-ended or multiple-choice must be selected", ErrInvalidArgument)
	}
	if complimentaryInfo == styleFormat {
		return GenerationRequest{}, fmt.Errorf(
			"%w: exactly one of complimentary info or style format must be selected", ErrInvalidArgument)
	}

	req := GenerationRequest{
		Kind:            KindOpenEnded,
		Quota:           quota,
		MaxAnswerLength: maxAnswerLength,
		Contextualization: Contextualization{
			Mode: ModeComplimentaryInfo,
		},
	}
	if multipleChoice {
		req.Kind = KindMultipleChoice
	}
	if styleFormat {
		req.Contextualization.Mode = ModeStyleFormat
	}

	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate checks the request for malformed values.
func (r GenerationRequest) Validate() error {
	if !isValidQuestionKind(r.Kind) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidArgument, ErrInvalidQuestionKind, r.Kind)
	}
	if !isValidContextMode(r.Contextualization.Mode) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidArgument, ErrInvalidContextMode, r.Contextualization.Mode)
	}
	if r.Quota < 0 {
		return fmt.Errorf("%w: quota cannot be negative (%d)", ErrInvalidArgument, r.Quota)
	}
	if r.Kind == KindOpenEnded && r.MaxAnswerLength <= 0 {
		return fmt.Errorf("%w: max answer length must be positive (%d)", ErrInvalidArgument, r.MaxAnswerLength)
	}
	return nil
}

func isValidQuestionKind(kind QuestionKind) bool {
	switch kind {
	case KindOpenEnded, KindMultipleChoice:
		return true
	default:
		return false
	}
}

func isValidContextMode(mode ContextMode) bool {
	switch mode {
	case ModeComplimentaryInfo, ModeStyleFormat:
		return true
	default:
		return false
	}
}
