package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

// DedupChecker abstracts the redelivery guard for pushed notifications (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, user, notificationID string) (bool, error)
	Mark(ctx context.Context, user, notificationID string) error
}

// PushRecorder counts applied push events.
type PushRecorder interface {
	Pushed(eventType string, outcome string)
}

type eventService struct {
	notifications ports.NotificationService
	cache         *querysync.Client
	dedup         DedupChecker
	rec           PushRecorder
	log           zerolog.Logger
}

// NewEventService returns the push event processor. dedup and rec may be nil.
func NewEventService(
	notifications ports.NotificationService,
	cache *querysync.Client,
	dedup DedupChecker,
	rec PushRecorder,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		notifications: notifications,
		cache:         cache,
		dedup:         dedup,
		rec:           rec,
		log:           log,
	}
}

// Process applies one push envelope.
func (s *eventService) Process(ctx context.Context, ev ports.PushEvent) error {
	var err error
	switch ev.Type {
	case ports.PushNotification:
		err = s.pushNotification(ctx, ev)
	case ports.PushInvalidate:
		err = s.invalidate(ev)
	default:
		err = fmt.Errorf("process push event: %w: unknown type %q", domain.ErrInvalidArgument, ev.Type)
	}

	if s.rec != nil {
		outcome := "applied"
		if err != nil {
			outcome = "rejected"
		}
		s.rec.Pushed(string(ev.Type), outcome)
	}
	return err
}

func (s *eventService) pushNotification(ctx context.Context, ev ports.PushEvent) error {
	if ev.Notification == nil {
		return fmt.Errorf("process push event: %w: missing notification", domain.ErrInvalidArgument)
	}
	n := *ev.Notification

	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, ev.User, n.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("user", ev.User).Msg("dedup check failed, processing anyway")
		} else if dup {
			s.log.Debug().Str("user", ev.User).Str("notification_id", n.ID).Msg("duplicate push skipped")
			return nil
		}
	}

	if err := s.notifications.Push(ev.User, n); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) && n.ID != "" && ev.User != "" {
			// already in the feed, typically from a fetch that raced the push
			s.log.Debug().Str("user", ev.User).Str("notification_id", n.ID).Msg("notification already present")
			return nil
		}
		return fmt.Errorf("process push event: %w", err)
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, ev.User, n.ID); err != nil {
			s.log.Warn().Err(err).Str("user", ev.User).Msg("failed to set dedup key")
		}
	}

	s.log.Info().Str("user", ev.User).Str("notification_id", n.ID).Str("kind", string(n.Kind)).Msg("notification pushed")
	return nil
}

func (s *eventService) invalidate(ev ports.PushEvent) error {
	if len(ev.Keys) == 0 {
		return fmt.Errorf("process push event: %w: no keys", domain.ErrInvalidArgument)
	}
	keys := make([]querysync.Key, 0, len(ev.Keys))
	for _, k := range ev.Keys {
		if k != "" {
			keys = append(keys, querysync.Key(k))
		}
	}
	n := s.cache.Invalidate(keys...)
	s.log.Debug().Strs("keys", ev.Keys).Int("entries", n).Msg("remote invalidation applied")
	return nil
}
