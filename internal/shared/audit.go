package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Audit actions recorded against administrative resources.
const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionDelete     = "delete"
	AuditActionActivate   = "activate"
	AuditActionDeactivate = "deactivate"
	AuditActionLogin      = "login"
	AuditActionLogout     = "logout"
	AuditActionExport     = "export"
)

// AuditEntry represents a record stored in audit_logs.
type AuditEntry struct {
	ActorID      string
	Action       string
	Resource     string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	Success      bool
	ErrorMessage string
	At           time.Time
}

// AuditRecorder is the surface mutation services record through. AuditLogger
// satisfies it; tests substitute an in-memory recorder.
type AuditRecorder interface {
	RecordSafe(ctx context.Context, entry AuditEntry)
	LogCreate(ctx context.Context, actorID, resource, resourceID string, details map[string]any)
	LogUpdate(ctx context.Context, actorID, resource, resourceID string, details map[string]any)
	LogDelete(ctx context.Context, actorID, resource, resourceID string, details map[string]any)
	LogFailure(ctx context.Context, actorID, action, resource, resourceID, errMessage string)
}

// AuditLogger writes records into audit_logs.
type AuditLogger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool, logger *slog.Logger) *AuditLogger {
	return &AuditLogger{pool: pool, logger: logger}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, entry AuditEntry) error {
	if l == nil || l.pool == nil {
		return errors.New("audit logger not initialised")
	}
	if entry.Action == "" || entry.Resource == "" {
		return errors.New("audit entry requires action and resource")
	}
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err = l.pool.Exec(ctx, `
INSERT INTO audit_logs (actor_id, action, resource, resource_id, details, ip_address, user_agent, success, error_message, occurred_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, ''), $10)`,
		entry.ActorID, entry.Action, entry.Resource, entry.ResourceID, detailsJSON,
		entry.IPAddress, entry.UserAgent, entry.Success, entry.ErrorMessage, at)
	return err
}

// RecordSafe persists the entry, swallowing and logging any failure. Audit
// trouble must never mask or fail the primary operation.
func (l *AuditLogger) RecordSafe(ctx context.Context, entry AuditEntry) {
	if err := l.Record(ctx, entry); err != nil {
		if l != nil && l.logger != nil {
			l.logger.Error("audit record failed",
				slog.String("action", entry.Action),
				slog.String("resource", entry.Resource),
				slog.Any("error", err))
		}
	}
}

// LogCreate records a successful create. Never propagates failures.
func (l *AuditLogger) LogCreate(ctx context.Context, actorID, resource, resourceID string, details map[string]any) {
	l.RecordSafe(ctx, AuditEntry{
		ActorID: actorID, Action: AuditActionCreate,
		Resource: resource, ResourceID: resourceID,
		Details: details, Success: true,
	})
}

// LogUpdate records a successful update. Never propagates failures.
func (l *AuditLogger) LogUpdate(ctx context.Context, actorID, resource, resourceID string, details map[string]any) {
	l.RecordSafe(ctx, AuditEntry{
		ActorID: actorID, Action: AuditActionUpdate,
		Resource: resource, ResourceID: resourceID,
		Details: details, Success: true,
	})
}

// LogDelete records a successful delete. Never propagates failures.
func (l *AuditLogger) LogDelete(ctx context.Context, actorID, resource, resourceID string, details map[string]any) {
	l.RecordSafe(ctx, AuditEntry{
		ActorID: actorID, Action: AuditActionDelete,
		Resource: resource, ResourceID: resourceID,
		Details: details, Success: true,
	})
}

// LogFailure records a failed operation. Never propagates failures.
func (l *AuditLogger) LogFailure(ctx context.Context, actorID, action, resource, resourceID, errMessage string) {
	l.RecordSafe(ctx, AuditEntry{
		ActorID: actorID, Action: action,
		Resource: resource, ResourceID: resourceID,
		Success: false, ErrorMessage: errMessage,
	})
}

// PurgeBefore removes audit entries older than the cutoff, returning the
// number of rows deleted. Used by the retention sweep job.
func (l *AuditLogger) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if l == nil || l.pool == nil {
		return 0, errors.New("audit logger not initialised")
	}
	tag, err := l.pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
