package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
)

// AuditService persists authentication audit events. Invoked by the queue
// dispatcher workers, never directly from the request path.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Process writes a single audit event. Failures are logged and swallowed;
// the audit trail is best-effort and must never fail a request.
func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, event); err != nil {
		s.log.Error().Err(err).
			Str("username", event.Username).
			Str("action", string(event.Action)).
			Msg("audit event not persisted")
		return err
	}
	return nil
}
