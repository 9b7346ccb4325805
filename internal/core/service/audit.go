package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

const auditTimeout = 3 * time.Second

// auditor writes the mutation audit trail. A nil repository disables it.
type auditor struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

func newAuditor(repo ports.AuditRepository, log zerolog.Logger) *auditor {
	return &auditor{repo: repo, log: log, now: time.Now}
}

// record is non-fatal: a failed insert is logged and otherwise ignored.
func (a *auditor) record(ctx context.Context, sess domain.Session, action, resource string, keys []querysync.Key, err error) {
	if a == nil || a.repo == nil {
		return
	}

	entry := domain.AuditEntry{
		ID:       uuid.NewString(),
		Actor:    sess.Username(),
		Role:     sess.Role(),
		Action:   action,
		Resource: resource,
		Outcome:  domain.AuditSucceeded,
		At:       a.now().UTC(),
	}
	if err != nil {
		entry.Outcome = domain.AuditFailed
		entry.Error = err.Error()
	} else {
		for _, k := range keys {
			entry.Invalidated = append(entry.Invalidated, k.String())
		}
	}

	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if insErr := a.repo.Insert(ictx, entry); insErr != nil {
		a.log.Warn().Err(insErr).Str("action", action).Str("actor", entry.Actor).Msg("failed to insert audit entry")
	}
}
