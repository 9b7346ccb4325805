package ports

import (
	"context"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// PushEventType discriminates push envelopes.
type PushEventType string

const (
	PushNotification PushEventType = "notification"
	PushInvalidate   PushEventType = "invalidate"
)

// PushEvent is the DTO passed from the push transport to EventService.
type PushEvent struct {
	Type         PushEventType        `json:"type"`
	User         string               `json:"user,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
	Keys         []string             `json:"keys,omitempty"`
}

// ShardKey keeps events for one user (or one key set) on one worker.
func (e PushEvent) ShardKey() string {
	if e.User != "" {
		return e.User
	}
	if len(e.Keys) > 0 {
		return e.Keys[0]
	}
	return string(e.Type)
}

// EventService applies pushed events to the gateway's caches.
type EventService interface {
	Process(ctx context.Context, event PushEvent) error
}
