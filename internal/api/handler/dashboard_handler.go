package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns the headline tiles.
//
// @Summary      Dashboard stats
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        refresh  query     bool  false  "Bypass the cache"
// @Success      200      {object}  readResponse[domain.DashboardStats]
// @Failure      401      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Stats(ctx, sess))
}

// Overview returns stats, recent alerts and trends.
//
// @Summary      Dashboard overview
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        refresh  query     bool  false  "Bypass the cache"
// @Success      200      {object}  readResponse[domain.DashboardOverview]
// @Failure      401      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /api/dashboard/overview [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Overview(ctx, sess))
}
