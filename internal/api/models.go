package api

import (
	"github.com/intelliexam/exam-api/internal/domain"
)

// Common request/response structures

// GenerateQuestionsParams holds the form parameters of POST /api/questions.
// Counts and lengths arrive as strings and are validated after conversion.
type GenerateQuestionsParams struct {
	OpenEndedCount      int    `validate:"gte=0,lte=200"`
	MultipleChoiceCount int    `validate:"gte=0,lte=200"`
	ModuleCode          string `validate:"required"`
	InputType           string `validate:"required,oneof=context format grounding"`
	MaxAnswerLength     int    `validate:"gte=0,lte=500"`
	Seed                int64
	Format              string `validate:"oneof=xlsx json"`
	ContentSource       string `validate:"omitempty,oneof=search sample"`
}

// SkippedReply describes a generation reply that was dropped as malformed.
type SkippedReply struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// QuestionSetResponse is the JSON rendering of a generated question set.
type QuestionSetResponse struct {
	// Records are the generated questions, open-ended first
	Records []domain.QuestionRecord `json:"records"`

	// Digest is the hex SHA-256 of the canonical JSON of the records
	Digest string `json:"digest"`

	// Seed reproduces the chunk order of this generation
	Seed int64 `json:"seed"`

	// Skipped lists replies that could not be parsed
	Skipped []SkippedReply `json:"skipped"`
}
