package bundle

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/algosync/pkg/http/ws"
)

const progressChannelPrefix = "import:progress:"

// Event kinds carried on the progress channel.
const (
	EventProgress = "progress"
	EventComplete = "complete"
)

// Event is one progress notification for a user's import.
type Event struct {
	Kind     string    `json:"kind"`
	JobID    uuid.UUID `json:"jobId"`
	UserID   uuid.UUID `json:"userId"`
	Progress Progress  `json:"progress"`
	Summary  *Summary  `json:"summary,omitempty"`
}

// ProgressChannel is the Pub/Sub channel for a user's import events.
func ProgressChannel(userID uuid.UUID) string {
	return progressChannelPrefix + userID.String()
}

// Publisher fans import events out to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// RedisPublisher publishes events on ProgressChannel.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ProgressChannel(evt.UserID), data).Err()
}

// runObserver publishes every progress update and, for async jobs, keeps the
// stored job current. Failures are logged and dropped.
type runObserver struct {
	ctx       context.Context
	job       *Job
	publisher Publisher
	jobs      JobTracker
	logger    zerolog.Logger
}

func (o *runObserver) ImportProgress(p Progress) {
	o.job.Progress = p
	if o.publisher != nil {
		evt := Event{Kind: EventProgress, JobID: o.job.ID, UserID: o.job.UserID, Progress: p}
		if err := o.publisher.Publish(o.ctx, evt); err != nil {
			o.logger.Debug().Err(err).Str("job_id", o.job.ID.String()).Msg("progress publish failed")
		}
	}
	if o.jobs != nil {
		if err := o.jobs.Save(o.ctx, *o.job); err != nil {
			o.logger.Debug().Err(err).Str("job_id", o.job.ID.String()).Msg("job progress save failed")
		}
	}
}

// Relay listens for import events on Redis Pub/Sub and forwards each one to
// the owning user's WebSocket connection.
type Relay struct {
	redis  *redis.Client
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewRelay creates a Pub/Sub powered progress relay.
func NewRelay(redis *redis.Client, hub *ws.Hub, logger zerolog.Logger) *Relay {
	return &Relay{
		redis:  redis,
		hub:    hub,
		logger: logger.With().Str("component", "import_progress_relay").Logger(),
	}
}

// Run subscribes to every user's progress channel and blocks until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r.redis == nil || r.hub == nil {
		return nil
	}

	sub := r.redis.PSubscribe(ctx, progressChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(msg.Channel, msg.Payload)
		}
	}
}

func (r *Relay) forward(channel, payload string) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		r.logger.Warn().Err(err).Str("channel", channel).Msg("failed to decode import event")
		return
	}
	if owner := strings.TrimPrefix(channel, progressChannelPrefix); owner != evt.UserID.String() {
		r.logger.Warn().Str("channel", channel).Msg("import event published on foreign channel")
		return
	}

	msg, err := toMessage(evt)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to marshal import WS payload")
		return
	}
	if err := r.hub.SendToUser(evt.UserID, msg); err != nil && err != ws.ErrConnectionNotFound {
		r.logger.Warn().Err(err).Str("user_id", evt.UserID.String()).Msg("failed to forward import event")
	}
}

func toMessage(evt Event) (ws.Message, error) {
	if evt.Kind == EventComplete && evt.Summary != nil {
		return ws.NewMessage(ws.TypeImportComplete, ws.ImportCompletePayload{
			JobID:    evt.JobID.String(),
			Total:    evt.Summary.Total,
			Imported: evt.Summary.Imported,
			Skipped:  evt.Summary.Skipped,
			Errors:   evt.Summary.Errors,
			Level:    evt.Summary.Level,
			Message:  evt.Summary.Message,
		})
	}
	return ws.NewMessage(ws.TypeImportProgress, ws.ImportProgressPayload{
		JobID:     evt.JobID.String(),
		Total:     evt.Progress.Total,
		Processed: evt.Progress.Processed,
		Imported:  evt.Progress.Imported,
		Skipped:   evt.Progress.Skipped,
		Errors:    evt.Progress.Errors,
		Fraction:  evt.Progress.Fraction,
	})
}
