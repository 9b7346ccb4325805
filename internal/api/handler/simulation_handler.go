package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

type SimulationHandler struct {
	service ports.SimulationService
}

func NewSimulationHandler(service ports.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// List returns every simulation run.
//
// @Summary      List simulations
// @Tags         simulations
// @Produce      json
// @Security     BearerAuth
// @Param        refresh  query     bool  false  "Bypass the cache"
// @Success      200      {object}  readResponse[[]domain.Simulation]
// @Router       /api/simulations [get]
func (h *SimulationHandler) List(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.List(ctx, sess))
}

// Get returns one simulation run.
//
// @Summary      Get simulation
// @Tags         simulations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Simulation ID"
// @Success      200  {object}  readResponse[domain.Simulation]
// @Failure      404  {object}  map[string]string
// @Router       /api/simulations/{id} [get]
func (h *SimulationHandler) Get(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Get(ctx, sess, c.Param("id")))
}

// Run starts a new simulation.
//
// @Summary      Run simulation
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      runSimulationRequest  true  "Scenario"
// @Success      201   {object}  domain.Simulation
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/simulations/run [post]
func (h *SimulationHandler) Run(c echo.Context) error {
	var req runSimulationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, sess := requestScope(c)
	sim, err := h.service.Run(ctx, sess, domain.RunSimulationInput{
		Name:        req.Name,
		Description: req.Description,
		Scenario:    req.Scenario,
		Parameters:  req.Parameters,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sim)
}

// Delete removes a simulation.
//
// @Summary      Delete simulation
// @Tags         simulations
// @Security     BearerAuth
// @Param        id   path  string  true  "Simulation ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/simulations/{id} [delete]
func (h *SimulationHandler) Delete(c echo.Context) error {
	ctx, sess := requestScope(c)
	if err := h.service.Delete(ctx, sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
