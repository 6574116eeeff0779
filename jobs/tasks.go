package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditRetention prunes audit log entries past the retention window.
	TaskAuditRetention = "audit:retention"
	// TaskSessionsPurge removes expired session registration rows.
	TaskSessionsPurge = "sessions:purge"
)

// AuditRetentionPayload carries the retention window for a sweep.
type AuditRetentionPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewAuditRetentionTask constructs an Asynq task for the retention sweep.
func NewAuditRetentionTask(retention time.Duration) (*asynq.Task, error) {
	body, err := json.Marshal(AuditRetentionPayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, body, asynq.Queue(QueueDefault)), nil
}

// SessionsPurgePayload carries scheduling metadata.
type SessionsPurgePayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSessionsPurgeTask constructs an Asynq task for the session purge.
func NewSessionsPurgeTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SessionsPurgePayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionsPurge, body, asynq.Queue(QueueDefault)), nil
}
