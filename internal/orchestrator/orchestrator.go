package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/generation"
	"github.com/intelliexam/exam-api/internal/quota"
	"golang.org/x/sync/errgroup"
)

// PromptBuilder renders the prompt for one unit and its question count.
type PromptBuilder interface {
	Build(req domain.GenerationRequest, unit domain.ContentUnit, count int) (string, error)
}

// Options tunes a pass.
type Options struct {
	// MaxConcurrent bounds the number of units prompted at once.
	MaxConcurrent int

	// PartialOnCancel returns completed replies when the caller's context
	// ends mid-pass instead of discarding them.
	PartialOnCancel bool

	// Timeouts sizes the per-attempt timeout from the unit's question count.
	Timeouts generation.TimeoutBudget
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxConcurrent:   4,
		PartialOnCancel: true,
		Timeouts:        generation.DefaultTimeoutBudget(),
	}
}

// Orchestrator runs generation passes.
type Orchestrator struct {
	client  generation.Client
	builder PromptBuilder
	opts    Options
	logger  *slog.Logger
}

// New creates an orchestrator.
func New(client generation.Client, builder PromptBuilder, opts Options, logger *slog.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.New("generation client cannot be nil")
	}
	if builder == nil {
		return nil, errors.New("prompt builder cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if opts.MaxConcurrent <= 0 {
		return nil, fmt.Errorf("%w: max concurrent must be positive (%d)", domain.ErrInvalidArgument, opts.MaxConcurrent)
	}
	return &Orchestrator{
		client:  client,
		builder: builder,
		opts:    opts,
		logger:  logger.With("component", "orchestrator"),
	}, nil
}

// task is one unit with a non-zero share of the quota.
type task struct {
	unit   int
	count  int
	prompt string
}

// Generate runs one pass of req over units and returns one reply per unit
// whose share of the quota is non-zero. Replies are ordered by unit position,
// whatever order the calls complete in. Units with a zero share are never
// prompted.
//
// Any unit that fails after retries aborts the pass. When the caller's
// context ends and PartialOnCancel is set, the replies completed so far are
// returned together with a *PartialError.
func (o *Orchestrator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	units []domain.ContentUnit,
) ([]domain.RawReply, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	shares, err := quota.Allocate(req.Quota, len(units))
	if err != nil {
		return nil, err
	}

	tasks := make([]task, 0, len(units))
	for _, i := range quota.Active(shares) {
		prompt, err := o.builder.Build(req, units[i], shares[i])
		if err != nil {
			return nil, fmt.Errorf("build prompt for unit %d: %w", i, err)
		}
		tasks = append(tasks, task{unit: i, count: shares[i], prompt: prompt})
	}

	passID := uuid.NewString()
	log := o.logger.With("pass_id", passID, "kind", req.Kind)
	log.InfoContext(ctx, "Starting generation pass",
		"quota", req.Quota,
		"units", len(units),
		"prompted_units", len(tasks))

	start := time.Now()
	replies := make([]domain.RawReply, len(tasks))
	done := make([]bool, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.MaxConcurrent)

	for slot, t := range tasks {
		g.Go(func() error {
			if ctx.Err() != nil && o.opts.PartialOnCancel {
				return nil
			}

			reply, err := o.client.Call(gctx, t.prompt, o.opts.Timeouts.For(t.count))
			if err != nil {
				if ctx.Err() != nil && o.opts.PartialOnCancel {
					log.WarnContext(ctx, "Unit interrupted by caller",
						"unit", t.unit,
						"error", err)
					return nil
				}
				return fmt.Errorf("generate unit %d: %w", t.unit, err)
			}

			replies[slot] = domain.RawReply(reply)
			done[slot] = true
			log.DebugContext(ctx, "Unit completed",
				"unit", t.unit,
				"questions", t.count)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "Generation pass failed",
			"error", err,
			"duration", time.Since(start))
		return nil, err
	}

	completed := make([]domain.RawReply, 0, len(tasks))
	for slot, ok := range done {
		if ok {
			completed = append(completed, replies[slot])
		}
	}

	if len(completed) < len(tasks) {
		log.WarnContext(ctx, "Generation pass interrupted",
			"completed", len(completed),
			"total", len(tasks),
			"duration", time.Since(start))
		return completed, &PartialError{
			Completed: len(completed),
			Total:     len(tasks),
			Err:       context.Cause(ctx),
		}
	}

	log.InfoContext(ctx, "Generation pass completed",
		"replies", len(completed),
		"duration", time.Since(start))
	return completed, nil
}
