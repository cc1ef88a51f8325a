package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository appends authentication audit events to a capped-style
// collection (capping itself is an ops concern, not enforced here).
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Username  string `bson:"username"`
	Action    string `bson:"action"`
	Reason    string `bson:"reason,omitempty"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	Path      string `bson:"path,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Username:  event.Username,
		Action:    string(event.Action),
		Reason:    event.Reason,
		RemoteIP:  event.RemoteIP,
		Path:      event.Path,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
