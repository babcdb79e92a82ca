package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sort"
)

// ServiceName is attached to every record written by the CI handler.
const ServiceName = "exam-api"

// CIHandler is a JSON handler that stamps each record with the service
// name, the CI build metadata and the calling function, so logs from a
// pipeline run can be matched to the commit that produced them.
type CIHandler struct {
	next      slog.Handler
	build     []slog.Attr
	addSource bool
}

// NewCIHandler returns a CIHandler writing JSON to out. opts is copied.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	metadata := getCIMetadata()
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	build := []slog.Attr{slog.String("service", ServiceName)}
	for _, k := range keys {
		build = append(build, slog.String(k, metadata[k]))
	}

	return &CIHandler{
		next:      slog.NewJSONHandler(out, &handlerOpts),
		build:     build,
		addSource: handlerOpts.AddSource,
	}
}

// Enabled implements slog.Handler.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.next = h.next.WithAttrs(attrs)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.next = h.next.WithGroup(name)
	return &clone
}

// Handle implements slog.Handler.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	r := record.Clone()
	r.AddAttrs(h.build...)

	if h.addSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		r.AddAttrs(slog.String("caller", frame.Function))
	}

	return h.next.Handle(ctx, r)
}
