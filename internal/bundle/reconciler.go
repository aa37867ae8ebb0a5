package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/question"
)

// Store is the slice of a user's collection an import needs.
type Store interface {
	List(ctx context.Context) ([]question.Question, error)
	Create(ctx context.Context, d question.Draft) (question.Question, error)
}

// Outcome is the result of handling one record.
type Outcome string

const (
	OutcomeImported Outcome = "imported"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
)

// Observer receives progress after every processed record. It is informational
// only and cannot influence the run.
type Observer interface {
	ImportProgress(p Progress)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(p Progress)

func (f ObserverFunc) ImportProgress(p Progress) { f(p) }

// Options tune a reconciler.
type Options struct {
	// RejectBatchDuplicates adds every accepted title to the seen-set so a
	// repeated title later in the same bundle is skipped instead of sent to
	// the store.
	RejectBatchDuplicates bool
	// RecordTimeout bounds each Create call; zero means no per-record limit.
	RecordTimeout time.Duration
}

// Reconciler merges bundle records into an existing collection without
// duplicating titles.
type Reconciler struct {
	opts    Options
	metrics *Metrics
	logger  zerolog.Logger
}

// NewReconciler builds a reconciler; metrics may be nil.
func NewReconciler(opts Options, metrics *Metrics, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		opts:    opts,
		metrics: metrics,
		logger:  logger.With().Str("component", "import_reconciler").Logger(),
	}
}

// Run imports records into store strictly in order, one write at a time.
//
// The existing titles are read once before the loop. Every record ends as
// exactly one of imported, skipped or error, and a failing record never stops
// the batch. Cancellation is checked between records; a cancelled run returns
// the partial summary together with the context error.
func (r *Reconciler) Run(ctx context.Context, store Store, records []json.RawMessage, observer Observer) (Summary, error) {
	session := NewSession(len(records))

	existing, err := store.List(ctx)
	if err != nil {
		return session.Summary(), fmt.Errorf("list existing questions: %w", err)
	}
	seen := make(map[string]struct{}, len(existing)+len(records))
	for _, q := range existing {
		seen[titleKey(q.Title)] = struct{}{}
	}

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			r.logger.Info().Int("processed", i).Int("total", len(records)).Msg("import cancelled")
			summary := session.Summary()
			r.metrics.observeRun(summary)
			return summary, err
		}

		outcome := r.handle(ctx, store, seen, i, raw)
		session.record(outcome)
		r.metrics.observeRecord(outcome)
		if observer != nil {
			observer.ImportProgress(session.Progress())
		}
	}

	summary := session.Summary()
	r.metrics.observeRun(summary)
	r.logger.Info().
		Int("total", summary.Total).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("import finished")
	return summary, nil
}

// Import decodes a bundle from src and runs it. A malformed bundle fails with a
// FormatError before the store is touched.
func (r *Reconciler) Import(ctx context.Context, store Store, src io.Reader, observer Observer) (Summary, error) {
	records, err := Decode(src)
	if err != nil {
		return Summary{}, err
	}
	return r.Run(ctx, store, records, observer)
}

func (r *Reconciler) handle(ctx context.Context, store Store, seen map[string]struct{}, index int, raw json.RawMessage) Outcome {
	rec, err := parseRecord(raw)
	if err != nil {
		r.logger.Warn().Err(err).Int("record", index).Msg("unreadable import record")
		return OutcomeError
	}

	draft := rec.draft()
	key := titleKey(draft.Title)
	if _, dup := seen[key]; dup {
		return OutcomeSkipped
	}

	createCtx := ctx
	if r.opts.RecordTimeout > 0 {
		var cancel context.CancelFunc
		createCtx, cancel = context.WithTimeout(ctx, r.opts.RecordTimeout)
		defer cancel()
	}

	if _, err := store.Create(createCtx, draft); err != nil {
		r.logger.Warn().Err(err).Int("record", index).Str("title", draft.Title).Msg("import record rejected")
		return OutcomeError
	}
	if r.opts.RejectBatchDuplicates {
		seen[key] = struct{}{}
	}
	return OutcomeImported
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
