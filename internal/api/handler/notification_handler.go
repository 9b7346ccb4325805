package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/notification"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns the caller's notification feed, newest first.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "all, unread or read"
// @Param        kind     query     string  false  "INFO, WARNING, ERROR or SUCCESS"
// @Param        refresh  query     bool    false  "Bypass the cache"
// @Success      200      {object}  readResponse[[]domain.Notification]
// @Failure      400      {object}  map[string]string
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	status, err := notification.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	f := notification.Filter{Status: status}
	if k := c.QueryParam("kind"); k != "" {
		if f.Kind, err = domain.ParseNotificationKind(k); err != nil {
			return err
		}
	}

	ctx, sess := requestScope(c)
	return respondRead(c, h.service.List(ctx, sess, f))
}

// Stats returns total, unread and per-kind counts.
//
// @Summary      Notification stats
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  readResponse[domain.NotificationStats]
// @Router       /api/notifications/stats [get]
func (h *NotificationHandler) Stats(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Stats(ctx, sess))
}

// MarkRead marks one notification as read.
//
// @Summary      Mark notification read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  string  true  "Notification ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	ctx, sess := requestScope(c)
	if err := h.service.MarkRead(ctx, sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead marks the whole feed as read.
//
// @Summary      Mark all notifications read
// @Tags         notifications
// @Security     BearerAuth
// @Success      204
// @Failure      502  {object}  map[string]string
// @Router       /api/notifications/mark-all-read [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	ctx, sess := requestScope(c)
	if err := h.service.MarkAllRead(ctx, sess); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
