package ports

import (
	"context"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// AuditRecorder accepts security audit events for asynchronous persistence.
// Record never blocks and never fails the calling request; events may be
// dropped under backpressure.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository is the persistence sink for audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
