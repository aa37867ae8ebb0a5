package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrQueueFull is returned by Enqueue when the worker cannot take more jobs.
var ErrQueueFull = errors.New("import queue is full")

// StoreFor resolves the collection an import writes into.
type StoreFor func(userID uuid.UUID) Store

type importRequest struct {
	job     Job
	records []json.RawMessage
}

// Worker runs queued imports one at a time, off the request path.
type Worker struct {
	reconciler *Reconciler
	stores     StoreFor
	jobs       JobTracker
	publisher  Publisher
	queue      chan importRequest
	logger     zerolog.Logger
	now        func() time.Time

	baseCtx   context.Context
	cancel    context.CancelFunc
	shutdownC chan struct{}
}

func NewWorker(reconciler *Reconciler, stores StoreFor, jobs JobTracker, publisher Publisher, queueSize int, logger zerolog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		reconciler: reconciler,
		stores:     stores,
		jobs:       jobs,
		publisher:  publisher,
		queue:      make(chan importRequest, queueSize),
		logger:     logger.With().Str("component", "import_worker").Logger(),
		now:        time.Now,
		baseCtx:    ctx,
		cancel:     cancel,
		shutdownC:  make(chan struct{}),
	}
}

// Enqueue records a queued job and hands it to the worker. It never blocks.
func (w *Worker) Enqueue(ctx context.Context, userID uuid.UUID, records []json.RawMessage) (Job, error) {
	now := w.now().UTC()
	job := Job{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    JobQueued,
		Progress:  NewSession(len(records)).Progress(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.jobs.Save(ctx, job); err != nil {
		return Job{}, err
	}

	select {
	case w.queue <- importRequest{job: job, records: records}:
		return job, nil
	default:
		job.Status = JobFailed
		job.Error = ErrQueueFull.Error()
		job.UpdatedAt = w.now().UTC()
		if err := w.jobs.Save(ctx, job); err != nil {
			w.logger.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to record rejected job")
		}
		return Job{}, ErrQueueFull
	}
}

// Run processes queued imports until Stop. Jobs still queued at that point
// are recorded as cancelled.
func (w *Worker) Run() {
	defer w.cancelQueued()
	for {
		// Shutdown wins over pending work.
		select {
		case <-w.shutdownC:
			w.logger.Info().Msg("import worker stopping")
			return
		default:
		}

		select {
		case <-w.shutdownC:
			w.logger.Info().Msg("import worker stopping")
			return
		case req := <-w.queue:
			w.handle(req)
		}
	}
}

func (w *Worker) handle(req importRequest) {
	ctx := w.baseCtx
	job := req.job
	logger := w.logger.With().Str("job_id", job.ID.String()).Str("user_id", job.UserID.String()).Logger()

	job.Status = JobRunning
	job.UpdatedAt = w.now().UTC()
	if err := w.jobs.Save(ctx, job); err != nil {
		logger.Warn().Err(err).Msg("failed to mark job running")
	}

	observer := &runObserver{ctx: ctx, job: &job, publisher: w.publisher, jobs: w.jobs, logger: logger}
	summary, err := w.reconciler.Run(ctx, w.stores(job.UserID), req.records, observer)

	job.Summary = &summary
	job.UpdatedAt = w.now().UTC()
	switch {
	case err == nil:
		job.Status = JobCompleted
	case errors.Is(err, context.Canceled):
		job.Status = JobCancelled
		job.Error = err.Error()
	default:
		job.Status = JobFailed
		job.Error = err.Error()
		logger.Error().Err(err).Msg("import job failed")
	}

	// The run context may already be cancelled; the final state still has to land.
	finalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.jobs.Save(finalCtx, job); err != nil {
		logger.Warn().Err(err).Msg("failed to save job summary")
	}
	if w.publisher != nil {
		evt := Event{Kind: EventComplete, JobID: job.ID, UserID: job.UserID, Progress: job.Progress, Summary: job.Summary}
		if err := w.publisher.Publish(finalCtx, evt); err != nil {
			logger.Debug().Err(err).Msg("completion publish failed")
		}
	}
}

// cancelQueued marks jobs that never started as cancelled so pollers see a
// final state instead of waiting for the record to expire.
func (w *Worker) cancelQueued() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case req := <-w.queue:
			job := req.job
			job.Status = JobCancelled
			job.Error = context.Canceled.Error()
			job.UpdatedAt = w.now().UTC()
			if err := w.jobs.Save(ctx, job); err != nil {
				w.logger.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to cancel queued job")
			}
		default:
			return
		}
	}
}

// Stop cancels the running import between records and ends Run.
func (w *Worker) Stop() {
	w.cancel()
	close(w.shutdownC)
}
