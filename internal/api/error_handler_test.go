package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/content-api/internal/core/domain"
)

func handle(t *testing.T, opts ErrorHandlerOptions, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop(), opts)(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestErrorHandler_KindMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrAccountDisabled, http.StatusUnauthorized},
		{domain.ErrInsufficientScope, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusUnauthorized},
		{domain.ErrPostNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.RoleNotFound("Moderator"), http.StatusBadRequest},
		{domain.Validation("bad"), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusBadRequest},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.StoreError(errors.New("boom"), "try later"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, body := handle(t, ErrorHandlerOptions{}, tc.err)
		if code != tc.code {
			t.Errorf("%v: status %d, want %d", tc.err, code, tc.code)
		}
		if body.Kind != string(domain.KindOf(tc.err)) {
			t.Errorf("%v: kind %q", tc.err, body.Kind)
		}
	}
}

func TestErrorHandler_StrictForbidden(t *testing.T) {
	code, body := handle(t, ErrorHandlerOptions{StrictForbidden: true}, domain.ErrForbidden)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if body.Error != domain.ErrForbidden.Message {
		t.Errorf("message = %q", body.Error)
	}
}

func TestErrorHandler_StoreErrorHidesCause(t *testing.T) {
	err := domain.StoreError(errors.New(`relation "posts" does not exist`), "failed to retrieve posts, please try again later")
	_, body := handle(t, ErrorHandlerOptions{}, fmt.Errorf("list: %w", err))
	if body.Error != "failed to retrieve posts, please try again later" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	code, body := handle(t, ErrorHandlerOptions{}, errors.New("kaboom"))
	if code != http.StatusInternalServerError || body.Error != "internal server error" || body.Kind != "store_error" {
		t.Fatalf("unexpected response %d %+v", code, body)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := handle(t, ErrorHandlerOptions{}, echo.ErrNotFound)
	if code != http.StatusNotFound || body.Kind != "not_found" {
		t.Fatalf("unexpected response %d %+v", code, body)
	}
}
