package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/notification"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

// notificationService keeps each user's feed in a notification.Store. The
// cache decides when the remote feed is refetched; every fetched copy is
// synced into the store, which then serves filters, stats and read flags.
type notificationService struct {
	api    ports.NotificationAPI
	cache  *querysync.Client
	stores *notification.Registry
	policy querysync.Policy
	audit  *auditor
	log    zerolog.Logger
}

// NewNotificationService wires the notification feed. audit may be nil.
func NewNotificationService(
	api ports.NotificationAPI,
	cache *querysync.Client,
	stores *notification.Registry,
	p Policies,
	audit ports.AuditRepository,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{
		api:    api,
		cache:  cache,
		stores: stores,
		policy: p.Notifications,
		audit:  newAuditor(audit, log),
		log:    log,
	}
}

func (s *notificationService) feed(ctx context.Context, sess domain.Session) (*notification.Store, querysync.Result[[]domain.Notification]) {
	user := sess.Username()
	store := s.stores.For(user)

	r := read(ctx, querysync.NewQuery(s.cache, NotificationsKey(user), s.policy, func(ctx context.Context) ([]domain.Notification, error) {
		return s.api.Notifications(ctx, sess.Token())
	}))
	if r.HasData {
		if _, err := store.Sync(r.Data, r.FetchedAt); err != nil {
			s.log.Error().Err(err).Str("user", user).Msg("remote notification feed rejected")
			r.Err = err
		}
	}
	return store, r
}

// List serves the user's feed filtered by f. Data comes from the store, so
// pushed notifications and local read flags are included.
func (s *notificationService) List(ctx context.Context, sess domain.Session, f notification.Filter) querysync.Result[[]domain.Notification] {
	store, r := s.feed(ctx, sess)
	return querysync.Result[[]domain.Notification]{
		Data:      store.List(f),
		HasData:   r.HasData || store.Len() > 0,
		FetchedAt: r.FetchedAt,
		Stale:     r.Stale,
		Fetching:  r.Fetching,
		Err:       r.Err,
	}
}

func (s *notificationService) Stats(ctx context.Context, sess domain.Session) querysync.Result[domain.NotificationStats] {
	store, r := s.feed(ctx, sess)
	return querysync.Result[domain.NotificationStats]{
		Data:      store.Stats(),
		HasData:   r.HasData || store.Len() > 0,
		FetchedAt: r.FetchedAt,
		Stale:     r.Stale,
		Fetching:  r.Fetching,
		Err:       r.Err,
	}
}

// MarkRead flags one notification on the remote side first; the local store
// follows only after the remote call succeeded.
func (s *notificationService) MarkRead(ctx context.Context, sess domain.Session, id string) error {
	if id == "" {
		return fmt.Errorf("mark read: %w: empty id", domain.ErrInvalidArgument)
	}
	user := sess.Username()
	key := NotificationsKey(user)

	_, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		if err := s.api.MarkNotificationRead(ctx, sess.Token(), id); err != nil {
			return nil, err
		}
		s.stores.For(user).MarkRead(id)
		return nil, nil
	}, key)
	s.audit.record(ctx, sess, "notification.mark_read", "notifications/"+id, []querysync.Key{key}, err)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, sess domain.Session) error {
	user := sess.Username()
	key := NotificationsKey(user)

	_, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		if err := s.api.MarkAllNotificationsRead(ctx, sess.Token()); err != nil {
			return nil, err
		}
		s.stores.For(user).MarkAllRead()
		return nil, nil
	}, key)
	s.audit.record(ctx, sess, "notification.mark_all_read", "notifications", []querysync.Key{key}, err)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// Push prepends a notification delivered over the push channel.
func (s *notificationService) Push(user string, n domain.Notification) error {
	if user == "" || n.ID == "" {
		return fmt.Errorf("push notification: %w: user and id are required", domain.ErrInvalidArgument)
	}
	if n.UserID == "" {
		n.UserID = user
	}
	if err := s.stores.For(user).Insert(n); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}
