package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/retrieval"
	"golang.org/x/sync/errgroup"
)

// SearchDepth is the number of matches requested per chunk.
const SearchDepth = 2

// DefaultConcurrency bounds parallel retriever calls.
const DefaultConcurrency = 4

// ErrInsufficientMatches is returned when the retriever finds too few
// passages for a chunk.
var ErrInsufficientMatches = errors.New("retriever returned too few matches")

// Source selects where grounding passages come from.
type Source string

// Possible grounding sources
const (
	// SourceSearch grounds each chunk on its nearest corpus passage.
	SourceSearch Source = "search"

	// SourceSample grounds chunks on random corpus passages. It suits style
	// samples such as past papers whose text is not itself on topic.
	SourceSample Source = "sample"
)

// ParseSource converts a raw flag into a Source; empty means SourceSearch.
func ParseSource(raw string) (Source, error) {
	switch s := Source(raw); s {
	case "":
		return SourceSearch, nil
	case SourceSearch, SourceSample:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown content source %q", domain.ErrInvalidArgument, raw)
	}
}

// Selector builds content units from chunks using a retriever.
type Selector struct {
	retriever   retrieval.Retriever
	concurrency int
	logger      *slog.Logger
}

// NewSelector creates a selector issuing at most concurrency retriever calls
// at once. A non-positive concurrency uses DefaultConcurrency.
func NewSelector(retriever retrieval.Retriever, concurrency int, logger *slog.Logger) (*Selector, error) {
	if retriever == nil {
		return nil, errors.New("retriever cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Selector{
		retriever:   retriever,
		concurrency: concurrency,
		logger:      logger.With("component", "content_selector"),
	}, nil
}

// Select returns one unit per chunk, in chunk order.
//
// Each chunk is used as a search query for its top two matches; the first
// match becomes the unit's Content. The unit's Context is the chunk itself,
// except in grounding mode where it is the second match and the document
// only steers retrieval. Retriever errors are returned unchanged (wrapped).
func (s *Selector) Select(
	ctx context.Context,
	chunks []string,
	corpus retrieval.CorpusID,
	mode domain.InputMode,
) ([]domain.ContentUnit, error) {
	required := 1
	if mode == domain.InputModeGrounding {
		required = SearchDepth
	}

	units := make([]domain.ContentUnit, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			matches, err := s.retriever.Search(gctx, chunk, corpus, SearchDepth)
			if err != nil {
				return fmt.Errorf("select chunk %d: %w", i, err)
			}
			if len(matches) < required {
				return fmt.Errorf("%w: chunk %d has %d of %d required matches",
					ErrInsufficientMatches, i, len(matches), required)
			}

			unit := domain.ContentUnit{Content: matches[0].Content, Context: chunk}
			if mode == domain.InputModeGrounding {
				unit.Context = matches[1].Content
			}
			units[i] = unit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Selected content units",
		"corpus", corpus,
		"mode", mode,
		"units", len(units))
	return units, nil
}

// SelectSampled pairs each chunk with a random corpus passage, in chunk order.
// Grounding mode needs ranked matches and is rejected.
func (s *Selector) SelectSampled(
	ctx context.Context,
	chunks []string,
	corpus retrieval.CorpusID,
	mode domain.InputMode,
) ([]domain.ContentUnit, error) {
	if mode == domain.InputModeGrounding {
		return nil, fmt.Errorf("%w: grounding mode requires search", domain.ErrInvalidArgument)
	}
	if len(chunks) == 0 {
		return []domain.ContentUnit{}, nil
	}

	passages, err := s.retriever.Sample(ctx, len(chunks), corpus)
	if err != nil {
		return nil, fmt.Errorf("sample content: %w", err)
	}
	if len(passages) < len(chunks) {
		return nil, fmt.Errorf("%w: sampled %d passages for %d chunks",
			ErrInsufficientMatches, len(passages), len(chunks))
	}

	units := make([]domain.ContentUnit, len(chunks))
	for i, chunk := range chunks {
		units[i] = domain.ContentUnit{Content: passages[i].Content, Context: chunk}
	}
	return units, nil
}

// Reverse returns a reversed copy of units.
func Reverse(units []domain.ContentUnit) []domain.ContentUnit {
	out := make([]domain.ContentUnit, len(units))
	for i, u := range units {
		out[len(units)-1-i] = u
	}
	return out
}
