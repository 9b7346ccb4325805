package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker guards against redelivered push notifications.
// Key format: dedup:push:<user>:<notification_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this notification was already applied for user.
func (d *DedupChecker) IsDuplicate(ctx context.Context, user, notificationID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(user, notificationID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the notification has been applied (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, user, notificationID string) error {
	if err := d.client.Set(ctx, d.key(user, notificationID), "1", dedupTTL).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func (d *DedupChecker) key(user, notificationID string) string {
	return fmt.Sprintf("dedup:push:%s:%s", user, notificationID)
}
