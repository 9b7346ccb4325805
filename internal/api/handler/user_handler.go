package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func userFilters(c echo.Context) (domain.UserFilters, error) {
	var f domain.UserFilters
	if r := c.QueryParam("role"); r != "" {
		role, err := domain.ParseRole(r)
		if err != nil {
			return f, err
		}
		f.Role = role
	}
	if a := c.QueryParam("isActive"); a != "" {
		active, err := strconv.ParseBool(a)
		if err != nil {
			return f, fmt.Errorf("%w: isActive must be a boolean", domain.ErrInvalidArgument)
		}
		f.IsActive = &active
	}
	f.Search = c.QueryParam("search")
	return f, nil
}

// List returns user accounts.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role      query     string  false  "Role filter"
// @Param        isActive  query     bool    false  "Active filter"
// @Param        search    query     string  false  "Username or email substring"
// @Param        refresh   query     bool    false  "Bypass the cache"
// @Success      200       {object}  readResponse[[]domain.User]
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	f, err := userFilters(c)
	if err != nil {
		return err
	}
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.List(ctx, sess, f))
}

// ServiceProviderUsers returns the service-provider user accounts.
//
// @Summary      List service provider users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  readResponse[[]domain.User]
// @Router       /api/users/service-provider [get]
func (h *UserHandler) ServiceProviderUsers(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.ServiceProviderUsers(ctx, sess))
}

// Get returns one account.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  readResponse[domain.User]
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	ctx, sess := requestScope(c)
	return respondRead(c, h.service.Get(ctx, sess, c.Param("id")))
}

// Create adds a service-provider user.
//
// @Summary      Create service provider user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/service-provider [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var role domain.Role
	if req.Role != "" {
		r, err := domain.ParseRole(req.Role)
		if err != nil {
			return err
		}
		role = r
	}

	ctx, sess := requestScope(c)
	user, err := h.service.CreateServiceProviderUser(ctx, sess, domain.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        role,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update changes an account. Omitted fields are left untouched.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, sess := requestScope(c)
	user, err := h.service.Update(ctx, sess, c.Param("id"), domain.UpdateUserInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, sess := requestScope(c)
	if err := h.service.Delete(ctx, sess, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
