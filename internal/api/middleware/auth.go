package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/postboard/content-api/internal/api/metrics"
	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// IdentityKey is the echo context key under which Auth stores the resolved
// *domain.Identity.
const IdentityKey = "identity"

// Auth runs the authorization gate for the bearer token of the request and
// injects the resolved identity into the context. Every scope listed is
// required.
func Auth(gate ports.Gate, scopes ...string) echo.MiddlewareFunc {
	challenge := "Bearer"
	if len(scopes) > 0 {
		challenge = fmt.Sprintf("Bearer scope=%q", strings.Join(scopes, " "))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := gate.Authorize(c.Request().Context(), bearerToken(c), scopes...)
			if err != nil {
				kind := domain.KindOf(err)
				metrics.AuthFailuresTotal.WithLabelValues(string(kind)).Inc()
				if kind != domain.KindStore {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, challenge)
				}
				return err
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(IdentityKey).(*domain.Identity)
	return identity
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// Anything else yields an empty credential, which the gate rejects.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
