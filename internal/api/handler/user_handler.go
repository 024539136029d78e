package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postboard/content-api/internal/api/metrics"
	"github.com/postboard/content-api/internal/core/ports"
)

// UserHandler serves the admin-only user endpoints. Scope checks happen in
// the Auth middleware.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users.
//
// @Summary      Create a user with explicit roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetByUsername handles GET /users/:username.
//
// @Summary      Get a user by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.FindByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetByEmail handles GET /users/email/:email.
//
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  userResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /users/email/{email} [get]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	user, err := h.service.FindByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List handles GET /users.
//
// @Summary      List users (passwords redacted)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Ban handles PUT /users/:username.
//
// @Summary      Ban a user (idempotent)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  messageResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [put]
func (h *UserHandler) Ban(c echo.Context) error {
	ack, err := h.service.Ban(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}

	metrics.UsersBannedTotal.Inc()
	return c.JSON(http.StatusOK, toMessageResponse(ack))
}
