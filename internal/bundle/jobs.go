package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job states.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
	JobCancelled = "cancelled"
)

const defaultJobTTL = time.Hour

// ErrJobNotFound is returned for unknown or expired jobs.
var ErrJobNotFound = errors.New("import job not found")

// Job is the pollable state of an asynchronous import.
type Job struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Status    string    `json:"status"`
	Progress  Progress  `json:"progress"`
	Summary   *Summary  `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JobTracker persists job state.
type JobTracker interface {
	Save(ctx context.Context, job Job) error
	Get(ctx context.Context, id uuid.UUID) (Job, error)
}

// JobStore keeps jobs in Redis with a TTL so finished summaries expire.
type JobStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ JobTracker = (*JobStore)(nil)

func NewJobStore(client *redis.Client, ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = defaultJobTTL
	}
	return &JobStore{client: client, ttl: ttl}
}

func jobKey(id uuid.UUID) string {
	return "import:job:" + id.String()
}

func (s *JobStore) Save(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(job.ID), data, s.ttl).Err()
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}
