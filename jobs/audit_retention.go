package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/retailpulse/retailpulse/internal/jobs"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// AuditRetentionJob deletes audit rows older than the configured window.
type AuditRetentionJob struct {
	audit   *shared.AuditLogger
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewAuditRetentionJob constructs the job.
func NewAuditRetentionJob(audit *shared.AuditLogger, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditRetentionJob {
	return &AuditRetentionJob{audit: audit, logger: logger, metrics: metrics}
}

// Handle processes TaskAuditRetention tasks.
func (j *AuditRetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Retention <= 0 {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track(TaskAuditRetention)
	cutoff := time.Now().UTC().Add(-payload.Retention)
	removed, err := j.audit.PurgeBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("audit retention sweep failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Info("audit retention sweep",
		slog.Time("cutoff", cutoff),
		slog.Int64("removed", removed))
	return tracker.End(nil)
}
