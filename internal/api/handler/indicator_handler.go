package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

type IndicatorHandler struct {
	service ports.IndicatorService
}

func NewIndicatorHandler(service ports.IndicatorService) *IndicatorHandler {
	return &IndicatorHandler{service: service}
}

func indicatorFilters(c echo.Context) (domain.IndicatorFilters, error) {
	f := domain.IndicatorFilters{
		TimeRange: domain.TimeRange(c.QueryParam("timeRange")),
		Start:     c.QueryParam("start"),
		End:       c.QueryParam("end"),
	}
	switch f.TimeRange {
	case "", domain.Range24h, domain.Range7d, domain.Range30d:
		return f, nil
	default:
		return f, fmt.Errorf("%w: timeRange must be one of 24h, 7d, 30d", domain.ErrInvalidArgument)
	}
}

// Transport returns the indicator of one transport mode.
//
// @Summary      Transport indicator
// @Tags         indicators
// @Produce      json
// @Security     BearerAuth
// @Param        mode       path      string  true   "car, cycle, bus, train, tram or pedestrian"
// @Param        timeRange  query     string  false  "24h, 7d or 30d"
// @Param        refresh    query     bool    false  "Bypass the cache"
// @Success      200        {object}  readResponse[domain.TransportIndicator]
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/indicators/{mode} [get]
func (h *IndicatorHandler) Transport(c echo.Context) error {
	mode, err := domain.ParseTransportMode(c.Param("mode"))
	if err != nil {
		return err
	}
	f, err := indicatorFilters(c)
	if err != nil {
		return err
	}
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Transport(ctx, sess, mode, f))
}

// Events returns city events affecting traffic.
//
// @Summary      City events
// @Tags         indicators
// @Produce      json
// @Security     BearerAuth
// @Param        timeRange  query     string  false  "24h, 7d or 30d"
// @Param        refresh    query     bool    false  "Bypass the cache"
// @Success      200        {object}  readResponse[[]domain.CityEvent]
// @Router       /api/indicators/events [get]
func (h *IndicatorHandler) Events(c echo.Context) error {
	f, err := indicatorFilters(c)
	if err != nil {
		return err
	}
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Events(ctx, sess, f))
}

// Construction returns construction projects affecting traffic.
//
// @Summary      Construction projects
// @Tags         indicators
// @Produce      json
// @Security     BearerAuth
// @Param        timeRange  query     string  false  "24h, 7d or 30d"
// @Param        refresh    query     bool    false  "Bypass the cache"
// @Success      200        {object}  readResponse[[]domain.ConstructionProject]
// @Router       /api/indicators/construction [get]
func (h *IndicatorHandler) Construction(c echo.Context) error {
	f, err := indicatorFilters(c)
	if err != nil {
		return err
	}
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Construction(ctx, sess, f))
}
