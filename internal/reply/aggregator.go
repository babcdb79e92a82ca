package reply

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/intelliexam/exam-api/internal/domain"
)

// Policy decides what happens to a malformed reply.
type Policy string

// Malformed reply policies
const (
	// PolicyAbort fails the whole aggregation on the first malformed reply.
	PolicyAbort Policy = "abort"

	// PolicySkip drops malformed replies and reports them in Result.Skipped.
	PolicySkip Policy = "skip"
)

// ParsePolicy converts a configured value into a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(raw); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown malformed reply policy %q", domain.ErrInvalidArgument, raw)
	}
}

// Result is the outcome of an aggregation.
type Result struct {
	Set     domain.ResultSet
	Skipped []*MalformedReplyError
}

// Aggregator classifies parsed replies into records.
type Aggregator struct {
	policy Policy
	logger *slog.Logger
}

// NewAggregator creates an aggregator with the given malformed reply policy.
func NewAggregator(policy Policy, logger *slog.Logger) (*Aggregator, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Aggregator{
		policy: policy,
		logger: logger.With("component", "reply_aggregator"),
	}, nil
}

// Aggregate walks replies in order and their elements in order. An element
// with choices becomes a multiple-choice record while fewer than mcqQuota
// have been taken; otherwise it becomes an open-ended record while fewer than
// oeQuota have been taken; otherwise it is discarded. A multiple-choice
// element over its cap may therefore fill an open-ended slot, without its
// choices.
//
// A malformed reply contributes nothing. Under PolicyAbort it fails the call
// with a *MalformedReplyError; under PolicySkip it is recorded in
// Result.Skipped. The same input always yields the same Result.
func (a *Aggregator) Aggregate(replies []domain.RawReply, oeQuota, mcqQuota int) (Result, error) {
	if oeQuota < 0 || mcqQuota < 0 {
		return Result{}, fmt.Errorf("%w: quotas cannot be negative (%d, %d)", domain.ErrInvalidArgument, oeQuota, mcqQuota)
	}

	result := Result{Set: domain.ResultSet{Records: []domain.QuestionRecord{}}}
	var openEnded, multipleChoice int

	for i, raw := range replies {
		parsed, err := Parse(raw)
		if err != nil {
			malformed := &MalformedReplyError{Index: i, Err: err}
			if a.policy == PolicyAbort {
				return Result{}, malformed
			}
			a.logger.Warn("Skipping malformed reply",
				"reply_index", i,
				"error", err)
			result.Skipped = append(result.Skipped, malformed)
			continue
		}

		for _, el := range parsed.Output {
			switch {
			case el.HasChoices() && multipleChoice < mcqQuota:
				rec, err := domain.NewMultipleChoiceRecord(
					el.Question, *el.Choices, string(el.Answer), string(el.Explanation))
				if err != nil {
					return Result{}, err
				}
				result.Set.Records = append(result.Set.Records, rec)
				multipleChoice++
			case openEnded < oeQuota:
				rec, err := domain.NewOpenEndedRecord(el.Question, string(el.Answer), string(el.Explanation))
				if err != nil {
					return Result{}, err
				}
				result.Set.Records = append(result.Set.Records, rec)
				openEnded++
			}
		}
	}

	a.logger.Debug("Aggregated replies",
		"replies", len(replies),
		"open_ended", openEnded,
		"multiple_choice", multipleChoice,
		"skipped", len(result.Skipped))
	return result, nil
}
