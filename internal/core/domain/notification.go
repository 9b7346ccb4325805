package domain

import (
	"fmt"
	"time"
)

// NotificationKind classifies a notification for display.
type NotificationKind string

const (
	KindInfo    NotificationKind = "INFO"
	KindWarning NotificationKind = "WARNING"
	KindError   NotificationKind = "ERROR"
	KindSuccess NotificationKind = "SUCCESS"
)

// NotificationKinds lists every kind in display order.
var NotificationKinds = []NotificationKind{KindInfo, KindWarning, KindError, KindSuccess}

// ParseNotificationKind validates a wire kind.
func ParseNotificationKind(s string) (NotificationKind, error) {
	for _, k := range NotificationKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown notification kind %q", ErrInvalidArgument, s)
}

// Notification is a single entry of a user's notification feed. IDs are
// assigned by the remote service; the gateway never originates one.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"message"`
	CreatedAt time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	UserID    string           `json:"userId,omitempty"`
}

// NotificationStats summarises a feed.
type NotificationStats struct {
	Total  int                      `json:"total"`
	Unread int                      `json:"unread"`
	ByKind map[NotificationKind]int `json:"byType"`
}
