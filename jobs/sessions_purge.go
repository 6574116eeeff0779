package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/retailpulse/retailpulse/internal/auth"
	jobmetrics "github.com/retailpulse/retailpulse/internal/jobs"
)

// SessionsPurgeJob removes expired session registration rows. The redis
// copies expire on their own; this keeps the postgres audit trail bounded.
type SessionsPurgeJob struct {
	service *auth.Service
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewSessionsPurgeJob constructs the job.
func NewSessionsPurgeJob(service *auth.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionsPurgeJob {
	return &SessionsPurgeJob{service: service, logger: logger, metrics: metrics}
}

// Handle processes TaskSessionsPurge tasks.
func (j *SessionsPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SessionsPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track(TaskSessionsPurge)
	removed, err := j.service.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		j.logger.Error("session purge failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Info("session purge", slog.Int64("removed", removed))
	return tracker.End(nil)
}
