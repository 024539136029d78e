package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/postboard/content-api/internal/api/metrics"
	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// RefreshCookie carries the refresh token between login, refresh and logout.
const RefreshCookie = "refresh_token"

type AuthHandler struct {
	authService ports.AuthService
	now         func() time.Time
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, now: time.Now}
}

// Register creates a self-service account with the User role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Token authenticates with username and password. The access token is in
// the body; the refresh token is set as an HttpOnly cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      tokenRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.refreshCookie(session.RefreshToken, session.RefreshExpiresAt))
	return c.JSON(http.StatusOK, toTokenResponse(session))
}

// Refresh issues a new access token from the refresh cookie.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	session, err := h.authService.Refresh(c.Request().Context(), refreshToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTokenResponse(session))
}

// Logout revokes the refresh token and clears the cookie.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), refreshToken(c)); err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie("", time.Time{}))
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// refreshCookie builds the refresh cookie; an empty value expires it.
func (h *AuthHandler) refreshCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if value == "" {
		cookie.MaxAge = -1
		return cookie
	}
	cookie.Expires = expires
	cookie.MaxAge = int(expires.Sub(h.now()).Seconds())
	return cookie
}

func refreshToken(c echo.Context) string {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
