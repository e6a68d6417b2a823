package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"leavedesk/internal/domain/audit"
)

type AuditRecorder interface {
	Record(ctx context.Context, evt audit.Event) error
}

// RecordAudit stores an audit event for the current request. A nil recorder
// is a no-op and failures are logged, never surfaced to the client.
func RecordAudit(r *http.Request, rec AuditRecorder, action, entityType, entityID string, details map[string]string) {
	if rec == nil {
		return
	}
	ctx := r.Context()
	evt := audit.Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  GetRequestID(ctx),
		IP:         clientIPKey(r),
		Details:    details,
	}
	if user, ok := GetUser(ctx); ok {
		evt.ActorID = user.UserID
	}
	if err := rec.Record(ctx, evt); err != nil {
		zap.L().Warn("audit record failed",
			zap.String("action", action),
			zap.String("request_id", evt.RequestID),
			zap.Error(err),
		)
	}
}
