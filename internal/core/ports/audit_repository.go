package ports

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// AuditRepository persists the write audit trail. Failures are reported but
// never block the write itself.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}
