package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/orchestrator"
	"github.com/intelliexam/exam-api/internal/reply"
	"github.com/intelliexam/exam-api/internal/retrieval"
	"github.com/intelliexam/exam-api/internal/selection"
)

// Extractor turns one document into content chunks.
type Extractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) ([]string, error)
}

// ContentSelector pairs chunks with grounding passages.
type ContentSelector interface {
	// Select grounds each chunk on its nearest corpus passages
	Select(ctx context.Context, chunks []string, corpus retrieval.CorpusID, mode domain.InputMode) ([]domain.ContentUnit, error)

	// SelectSampled grounds each chunk on a random corpus passage
	SelectSampled(ctx context.Context, chunks []string, corpus retrieval.CorpusID, mode domain.InputMode) ([]domain.ContentUnit, error)
}

// Generator runs one generation pass.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, units []domain.ContentUnit) ([]domain.RawReply, error)
}

// Aggregator classifies raw replies into capped records.
type Aggregator interface {
	Aggregate(replies []domain.RawReply, oeQuota, mcqQuota int) (reply.Result, error)
}

// Document is one uploaded file.
type Document struct {
	Name   string
	Reader io.ReaderAt
	Size   int64
}

// QuestionSetRequest describes one question-set generation.
type QuestionSetRequest struct {
	Documents           []Document
	OpenEndedCount      int
	MultipleChoiceCount int
	Corpus              retrieval.CorpusID
	InputMode           domain.InputMode
	Source              selection.Source
	MaxAnswerLength     int
	Seed                int64
}

// QuestionSetResult is the outcome of a generation.
type QuestionSetResult struct {
	Set     domain.ResultSet
	Skipped []*reply.MalformedReplyError
	// Partial is set when a pass was interrupted before all units replied.
	Partial bool
}

// QuestionService provides question-set generation
type QuestionService interface {
	// Generate extracts the documents, grounds their chunks on the corpus and
	// runs the open-ended and multiple-choice passes.
	Generate(ctx context.Context, req QuestionSetRequest) (QuestionSetResult, error)
}

// questionServiceImpl implements the QuestionService interface
type questionServiceImpl struct {
	extractor       Extractor
	selector        ContentSelector
	generator       Generator
	aggregator      Aggregator
	maxAnswerLength int
	logger          *slog.Logger
}

// NewQuestionService creates a new QuestionService.
// It returns an error if any of the required dependencies are nil.
func NewQuestionService(
	extractor Extractor,
	selector ContentSelector,
	generator Generator,
	aggregator Aggregator,
	maxAnswerLength int,
	logger *slog.Logger,
) (QuestionService, error) {
	if extractor == nil {
		return nil, &QuestionServiceError{Operation: "create_service", Message: "extractor cannot be nil"}
	}
	if selector == nil {
		return nil, &QuestionServiceError{Operation: "create_service", Message: "selector cannot be nil"}
	}
	if generator == nil {
		return nil, &QuestionServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if aggregator == nil {
		return nil, &QuestionServiceError{Operation: "create_service", Message: "aggregator cannot be nil"}
	}
	if maxAnswerLength <= 0 {
		maxAnswerLength = domain.DefaultMaxAnswerLength
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &questionServiceImpl{
		extractor:       extractor,
		selector:        selector,
		generator:       generator,
		aggregator:      aggregator,
		maxAnswerLength: maxAnswerLength,
		logger:          logger.With("component", "question_service"),
	}, nil
}

// Generate runs the whole pipeline for req.
//
// Chunks from every document are pooled in upload order, shuffled with
// req.Seed and grounded on the corpus. The open-ended pass runs over the
// units in that order and the multiple-choice pass over the reversed order,
// so extra questions from uneven splits land on different units. Replies of
// both passes are aggregated together, open-ended first.
//
// When a pass is interrupted by ctx, the replies collected so far are still
// aggregated; the result has Partial set and the error is the
// *orchestrator.PartialError.
func (s *questionServiceImpl) Generate(ctx context.Context, req QuestionSetRequest) (QuestionSetResult, error) {
	if err := s.validate(&req); err != nil {
		return QuestionSetResult{}, err
	}

	start := time.Now()
	log := s.logger.With(
		"corpus", req.Corpus,
		"input_mode", req.InputMode,
		"seed", req.Seed)

	chunks, err := s.extractAll(ctx, req.Documents)
	if err != nil {
		return QuestionSetResult{}, err
	}

	chunks = selection.NewDiversifier(req.Seed).Shuffle(chunks)

	var units []domain.ContentUnit
	if req.Source == selection.SourceSample {
		units, err = s.selector.SelectSampled(ctx, chunks, req.Corpus, req.InputMode)
	} else {
		units, err = s.selector.Select(ctx, chunks, req.Corpus, req.InputMode)
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to select content", "error", err)
		return QuestionSetResult{}, NewQuestionServiceError("select", "failed to select content", err)
	}

	mode := domain.Contextualization{Mode: req.InputMode.ContextMode()}
	openEnded := domain.GenerationRequest{
		Kind:              domain.KindOpenEnded,
		Quota:             req.OpenEndedCount,
		MaxAnswerLength:   req.MaxAnswerLength,
		Contextualization: mode,
	}
	multipleChoice := domain.GenerationRequest{
		Kind:              domain.KindMultipleChoice,
		Quota:             req.MultipleChoiceCount,
		MaxAnswerLength:   req.MaxAnswerLength,
		Contextualization: mode,
	}

	replies, interrupted, err := s.runPass(ctx, openEnded, units, "generate_open_ended")
	if err != nil {
		return QuestionSetResult{}, err
	}
	if interrupted == nil {
		mcqReplies, mcqInterrupted, err := s.runPass(ctx, multipleChoice, selection.Reverse(units), "generate_multiple_choice")
		if err != nil {
			return QuestionSetResult{}, err
		}
		replies = append(replies, mcqReplies...)
		interrupted = mcqInterrupted
	}

	aggregated, err := s.aggregator.Aggregate(replies, req.OpenEndedCount, req.MultipleChoiceCount)
	if err != nil {
		log.ErrorContext(ctx, "failed to aggregate replies", "error", err)
		return QuestionSetResult{}, NewQuestionServiceError("aggregate", "failed to aggregate replies", err)
	}

	result := QuestionSetResult{
		Set:     aggregated.Set,
		Skipped: aggregated.Skipped,
		Partial: interrupted != nil,
	}
	oe, mcq := result.Set.Counts()
	log.InfoContext(ctx, "question set generated",
		"documents", len(req.Documents),
		"chunks", len(chunks),
		"open_ended", oe,
		"multiple_choice", mcq,
		"skipped_replies", len(result.Skipped),
		"partial", result.Partial,
		"duration", time.Since(start))

	if interrupted != nil {
		return result, interrupted
	}
	return result, nil
}

func (s *questionServiceImpl) validate(req *QuestionSetRequest) error {
	if len(req.Documents) == 0 {
		return ErrNoDocuments
	}
	if req.OpenEndedCount < 0 || req.MultipleChoiceCount < 0 {
		return fmt.Errorf("%w: question counts cannot be negative", domain.ErrInvalidArgument)
	}
	if _, err := domain.ParseInputMode(string(req.InputMode)); err != nil {
		return err
	}
	if req.Corpus == "" {
		return fmt.Errorf("%w: module code is required", domain.ErrInvalidArgument)
	}
	if req.Source == "" {
		req.Source = selection.SourceSearch
	}
	if req.MaxAnswerLength == 0 {
		req.MaxAnswerLength = s.maxAnswerLength
	}
	if req.MaxAnswerLength < 0 {
		return fmt.Errorf("%w: max answer length cannot be negative", domain.ErrInvalidArgument)
	}
	return nil
}

func (s *questionServiceImpl) extractAll(ctx context.Context, docs []Document) ([]string, error) {
	var chunks []string
	for _, doc := range docs {
		docChunks, err := s.extractor.Extract(ctx, doc.Reader, doc.Size)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to extract document",
				"error", err,
				"document", doc.Name)
			return nil, NewQuestionServiceError("extract", fmt.Sprintf("failed to extract %q", doc.Name), err)
		}
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return nil, ErrNoContent
	}
	return chunks, nil
}

// runPass runs one generation pass. An interrupted pass returns its
// completed replies and the interruption separately from hard failures.
func (s *questionServiceImpl) runPass(
	ctx context.Context,
	req domain.GenerationRequest,
	units []domain.ContentUnit,
	operation string,
) ([]domain.RawReply, *orchestrator.PartialError, error) {
	replies, err := s.generator.Generate(ctx, req, units)
	if err == nil {
		return replies, nil, nil
	}

	var partial *orchestrator.PartialError
	if errors.As(err, &partial) {
		s.logger.WarnContext(ctx, "generation pass interrupted",
			"kind", req.Kind,
			"completed", partial.Completed,
			"total", partial.Total)
		return replies, partial, nil
	}

	s.logger.ErrorContext(ctx, "generation pass failed",
		"error", err,
		"kind", req.Kind)
	return nil, nil, NewQuestionServiceError(operation, "generation pass failed", err)
}
