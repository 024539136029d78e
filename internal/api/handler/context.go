package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/postboard/content-api/internal/api/middleware"
	"github.com/postboard/content-api/internal/core/domain"
)

// actor returns the identity injected by the Auth middleware. Its absence
// means the route was registered without the middleware; fail closed.
func actor(c echo.Context) (*domain.Identity, error) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	return identity, nil
}
