package domain

import "time"

// AuditOutcome is the result of an audited write.
type AuditOutcome string

const (
	AuditSucceeded AuditOutcome = "succeeded"
	AuditFailed    AuditOutcome = "failed"
)

// AuditEntry records one write issued through the gateway on behalf of a user.
type AuditEntry struct {
	ID          string
	Actor       string
	Role        Role
	Action      string
	Resource    string
	Invalidated []string
	Outcome     AuditOutcome
	Error       string
	At          time.Time
}
