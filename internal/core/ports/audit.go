package ports

import (
	"context"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditService processes a single audit event end-to-end.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous recording. Implemented
// by the queue dispatcher so the auth hot path never blocks on persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
