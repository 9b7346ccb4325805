package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type SystemHandler struct {
	service ports.SystemService
}

func NewSystemHandler(service ports.SystemService) *SystemHandler {
	return &SystemHandler{service: service}
}

// Status returns the remote system status.
//
// @Summary      System status
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Param        refresh  query     bool  false  "Bypass the cache"
// @Success      200      {object}  readResponse[domain.SystemStatus]
// @Failure      403      {object}  map[string]string
// @Router       /api/system/status [get]
func (h *SystemHandler) Status(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Status(ctx, sess))
}

// Health returns the remote health checks.
//
// @Summary      System health
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  readResponse[domain.SystemHealth]
// @Router       /api/system/health [get]
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Health(ctx, sess))
}

// StatusStream pushes the polled system status as server-sent events until
// the client disconnects.
//
// @Summary      System status stream
// @Tags         system
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {object}  readResponse[domain.SystemStatus]
// @Router       /api/system/status/stream [get]
func (h *SystemHandler) StatusStream(c echo.Context) error {
	ctx, sess := requestScope(c)
	updates := h.service.WatchStatus(ctx, sess)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeStatusEvent(res, r); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeStatusEvent(w *echo.Response, r querysync.Result[domain.SystemStatus]) error {
	payload := readResponse[domain.SystemStatus]{
		Data:      r.Data,
		Stale:     r.Stale,
		FetchedAt: r.FetchedAt,
	}
	event := "status"
	if r.Err != nil {
		payload.Stale = true
		payload.Error = "remote service unavailable"
		if !r.HasData {
			event = "error"
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
