package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/ledongthuc/pdf"
)

// ErrUnreadableDocument is returned when a document cannot be parsed.
var ErrUnreadableDocument = fmt.Errorf("%w: unreadable document", domain.ErrInvalidArgument)

// Extractor turns one document into content chunks.
type Extractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) ([]string, error)
}

// PDFExtractor extracts chunks from PDF documents.
type PDFExtractor struct {
	minLength int
	logger    *slog.Logger
}

// NewPDFExtractor creates a PDF extractor. A non-positive minLength uses
// DefaultMinChunkLength.
func NewPDFExtractor(minLength int, logger *slog.Logger) (*PDFExtractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if minLength <= 0 {
		minLength = DefaultMinChunkLength
	}
	return &PDFExtractor{
		minLength: minLength,
		logger:    logger.With("component", "pdf_extractor"),
	}, nil
}

// Extract reads every page of the document and chunks the text. Page
// boundaries always separate chunks.
func (e *PDFExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) ([]string, error) {
	pages, err := e.readPages(ctx, r, size)
	if err != nil {
		return nil, err
	}

	chunks := Chunk(strings.Join(pages, "\n\n"), e.minLength)
	e.logger.DebugContext(ctx, "Extracted document",
		"pages", len(pages),
		"chunks", len(chunks))
	return chunks, nil
}

func (e *PDFExtractor) readPages(ctx context.Context, r io.ReaderAt, size int64) (pages []string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrUnreadableDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrUnreadableDocument, i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
