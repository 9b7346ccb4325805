// Package stream carries push events from NATS into the gateway.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

const DefaultSubject = "scm.events"

// Config holds the NATS connection settings.
type Config struct {
	URL     string
	Subject string
	// Queue, when set, load-balances events across gateway replicas.
	Queue string
	Name  string
}

// Connect dials NATS and keeps reconnecting in the background.
func Connect(cfg Config, log zerolog.Logger) (*nats.Conn, error) {
	name := cfg.Name
	if name == "" {
		name = "dashboard-gateway"
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// Enqueuer accepts decoded events; the sharded dispatcher implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, event ports.PushEvent) error
}

// Subscriber decodes push envelopes from a subject and hands them on.
type Subscriber struct {
	nc      *nats.Conn
	subject string
	queue   string
	out     Enqueuer
	log     zerolog.Logger
	sub     *nats.Subscription
}

// NewSubscriber creates a Subscriber. An empty subject uses DefaultSubject.
func NewSubscriber(nc *nats.Conn, cfg Config, out Enqueuer, log zerolog.Logger) *Subscriber {
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return &Subscriber{
		nc:      nc,
		subject: subject,
		queue:   cfg.Queue,
		out:     out,
		log:     log.With().Str("component", "stream").Str("subject", subject).Logger(),
	}
}

// Start subscribes. Events are enqueued with ctx, so cancelling it stops
// delivery into the dispatcher.
func (s *Subscriber) Start(ctx context.Context) error {
	handler := func(msg *nats.Msg) {
		s.handle(ctx, msg.Data)
	}

	var err error
	if s.queue != "" {
		s.sub, err = s.nc.QueueSubscribe(s.subject, s.queue, handler)
	} else {
		s.sub, err = s.nc.Subscribe(s.subject, handler)
	}
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.log.Info().Str("queue", s.queue).Msg("listening for push events")
	return nil
}

// Close drains the subscription.
func (s *Subscriber) Close() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Drain()
}

func (s *Subscriber) handle(ctx context.Context, data []byte) {
	event, err := Decode(data)
	if err != nil {
		s.log.Warn().Err(err).Int("size", len(data)).Msg("dropping malformed push event")
		return
	}
	if err := s.out.Enqueue(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event_type", string(event.Type)).Msg("push event not enqueued")
	}
}

// Decode parses and validates one push envelope.
func Decode(data []byte) (ports.PushEvent, error) {
	var event ports.PushEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return ports.PushEvent{}, fmt.Errorf("%w: decode push event: %v", domain.ErrInvalidArgument, err)
	}
	switch event.Type {
	case ports.PushNotification:
		if event.User == "" || event.Notification == nil || event.Notification.ID == "" {
			return ports.PushEvent{}, fmt.Errorf("%w: notification event needs user and notification id", domain.ErrInvalidArgument)
		}
	case ports.PushInvalidate:
		if len(event.Keys) == 0 {
			return ports.PushEvent{}, fmt.Errorf("%w: invalidate event needs keys", domain.ErrInvalidArgument)
		}
	default:
		return ports.PushEvent{}, fmt.Errorf("%w: unknown push event type %q", domain.ErrInvalidArgument, event.Type)
	}
	return event, nil
}

// Publish sends one push event. Used by operators and the demo tooling.
func Publish(ctx context.Context, nc *nats.Conn, subject string, event ports.PushEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	if subject == "" {
		subject = DefaultSubject
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal push event: %w", err)
	}
	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if _, ok := ctx.Deadline(); ok {
		return nc.FlushWithContext(ctx)
	}
	return nc.Flush()
}
