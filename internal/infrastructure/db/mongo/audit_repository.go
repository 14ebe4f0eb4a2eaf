package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/constructia/platform-api/internal/core/domain"
)

const auditCollection = "audit_logs"

const auditWriteTimeout = 5 * time.Second

// AuditSink appends audit events to the audit_logs collection. Writes are
// best-effort: a failed insert is dropped silently, matching the
// fire-and-forget audit contract.
type AuditSink struct {
	coll *mongo.Collection
}

func NewAuditSink(db *mongo.Database) *AuditSink {
	return &AuditSink{coll: db.Collection(auditCollection)}
}

func (s *AuditSink) Emit(ctx context.Context, event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()

	_, _ = s.coll.InsertOne(ctx, event)
}
