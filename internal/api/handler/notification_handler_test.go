package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/scm/dashboard-gateway/internal/api/middleware"
	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/notification"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type stubNotificationService struct {
	listFn     func(ctx context.Context, sess domain.Session, f notification.Filter) querysync.Result[[]domain.Notification]
	markReadFn func(ctx context.Context, sess domain.Session, id string) error
}

func (s *stubNotificationService) List(ctx context.Context, sess domain.Session, f notification.Filter) querysync.Result[[]domain.Notification] {
	return s.listFn(ctx, sess, f)
}

func (s *stubNotificationService) Stats(context.Context, domain.Session) querysync.Result[domain.NotificationStats] {
	return querysync.Result[domain.NotificationStats]{HasData: true}
}

func (s *stubNotificationService) MarkRead(ctx context.Context, sess domain.Session, id string) error {
	return s.markReadFn(ctx, sess, id)
}

func (s *stubNotificationService) MarkAllRead(context.Context, domain.Session) error { return nil }

func (s *stubNotificationService) Push(string, domain.Notification) error { return nil }

func TestNotificationHandler_List_Filters(t *testing.T) {
	e := newTestEcho()
	var got notification.Filter
	stub := &stubNotificationService{
		listFn: func(_ context.Context, sess domain.Session, f notification.Filter) querysync.Result[[]domain.Notification] {
			if sess.Username() != "admin" {
				t.Fatalf("unexpected session user %q", sess.Username())
			}
			got = f
			return querysync.Result[[]domain.Notification]{HasData: true, Data: []domain.Notification{}}
		},
	}
	handler := NewNotificationHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/api/notifications?status=unread&kind=WARNING", "")
	c.Set(middleware.SessionKey, mustSession(t, "admin", domain.RoleGovernmentAdmin))
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Status != notification.StatusUnread || got.Kind != domain.KindWarning {
		t.Fatalf("unexpected filter: %+v", got)
	}
}

func TestNotificationHandler_List_RejectsUnknownFilters(t *testing.T) {
	for _, query := range []string{"status=archived", "kind=DEBUG"} {
		t.Run(query, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubNotificationService{
				listFn: func(context.Context, domain.Session, notification.Filter) querysync.Result[[]domain.Notification] {
					t.Fatal("service must not be called")
					return querysync.Result[[]domain.Notification]{}
				},
			}
			handler := NewNotificationHandler(stub)

			c, _ := jsonContext(e, http.MethodGet, "/api/notifications?"+query, "")
			if err := handler.List(c); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	e := newTestEcho()
	stub := &stubNotificationService{
		markReadFn: func(_ context.Context, _ domain.Session, id string) error {
			if id == "missing" {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	handler := NewNotificationHandler(stub)

	c, rec := jsonContext(e, http.MethodPut, "/api/notifications/n-1/read", "")
	c.SetParamNames("id")
	c.SetParamValues("n-1")
	if err := handler.MarkRead(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = jsonContext(e, http.MethodPut, "/api/notifications/missing/read", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := handler.MarkRead(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
