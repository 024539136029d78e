package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/content-api/internal/api/metrics"
	"github.com/postboard/content-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ErrorHandlerOptions tunes the status mapping.
type ErrorHandlerOptions struct {
	// StrictForbidden answers ownership failures with 403 instead of 401.
	StrictForbidden bool
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - maps *domain.Error kinds to HTTP status codes,
//   - logs store errors and unexpected errors without leaking them,
//   - renders {"error": "<message>", "kind": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger, opts ErrorHandlerOptions) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, opts, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, opts ErrorHandlerOptions, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Kind: httpKind(he.Code)}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		if de.Kind == domain.KindForbidden {
			metrics.OwnershipDeniedTotal.Inc()
		}
		code := statusFor(de.Kind, opts)
		if code == http.StatusInternalServerError {
			logError(log, c, err)
		}
		return code, errorResponse{Error: de.Message, Kind: string(de.Kind)}
	}

	// Unexpected error: log the real cause, return a generic message.
	logError(log, c, err)
	return http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Kind:  string(domain.KindStore),
	}
}

func statusFor(kind domain.ErrorKind, opts ErrorHandlerOptions) int {
	switch kind {
	case domain.KindUnauthenticated, domain.KindAccountDisabled, domain.KindInsufficientScope:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		if opts.StrictForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRoleNotFound, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func httpKind(code int) string {
	switch {
	case code == http.StatusNotFound:
		return string(domain.KindNotFound)
	case code == http.StatusUnauthorized:
		return string(domain.KindUnauthenticated)
	case code >= 500:
		return string(domain.KindStore)
	default:
		return string(domain.KindValidation)
	}
}

func logError(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
}
