package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/api/middleware"
	"github.com/scm/dashboard-gateway/internal/core/access"
	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// SessionHandler exposes the caller's session, menu and view decisions.
type SessionHandler struct {
	views *access.Table
}

func NewSessionHandler(views *access.Table) *SessionHandler {
	return &SessionHandler{views: views}
}

// Session describes the caller. Anonymous callers get authenticated=false.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if !sess.Authenticated() {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated:   true,
		Username:        sess.Username(),
		Role:            sess.Role().String(),
		RoleDisplayName: sess.Role().DisplayName(),
	})
}

// Navigation returns the menu entries visible to the caller, grouped by
// section in menu order.
//
// @Summary      Navigation menu
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   navigationSectionResponse
// @Router       /api/navigation [get]
func (h *SessionHandler) Navigation(c echo.Context) error {
	return c.JSON(http.StatusOK, groupSections(h.views.Visible(middleware.SessionFrom(c))))
}

func groupSections(entries []domain.NavigationEntry) []navigationSectionResponse {
	sections := []navigationSectionResponse{}
	for _, e := range entries {
		if n := len(sections); n == 0 || sections[n-1].Title != e.Section {
			sections = append(sections, navigationSectionResponse{Title: e.Section})
		}
		last := &sections[len(sections)-1]
		last.Entries = append(last.Entries, toNavigationEntry(e))
	}
	return sections
}

func toNavigationEntry(e domain.NavigationEntry) navigationEntryResponse {
	resp := navigationEntryResponse{
		ID:      e.ID,
		Title:   e.Title,
		Path:    e.Path,
		Section: e.Section,
	}
	for _, r := range e.Roles() {
		resp.Roles = append(resp.Roles, r.String())
	}
	return resp
}

// ViewAccess reports whether the caller may open a view. The decision is
// always returned with 200; unknown views are 404.
//
// @Summary      Authorise a view
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        view  path      string  true  "View identifier"
// @Success      200   {object}  viewAccessResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/views/{view}/access [get]
func (h *SessionHandler) ViewAccess(c echo.Context) error {
	view := c.Param("view")
	d, err := h.views.AuthorizeView(middleware.SessionFrom(c), view)
	if err != nil {
		return err
	}

	resp := viewAccessResponse{View: view, Decision: d.Outcome.String()}
	if d.Outcome == access.Redirect {
		resp.Target = "/" + d.Target
	}
	return c.JSON(http.StatusOK, resp)
}
