package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"voicegateway/internal/domain"
)

func newErrorTestApp(routeErr error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return routeErr
	})
	return app
}

func TestErrorHandlerMapsNotFound(t *testing.T) {
	app := newErrorTestApp(domain.ErrNotFound)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404 for domain.ErrNotFound", resp.StatusCode)
	}
}

func TestErrorHandlerMapsConflictError(t *testing.T) {
	app := newErrorTestApp(&domain.ConflictError{ResourceType: "tenant", ResourceID: "t1"})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409 for a ConflictError (satisfies domain.HTTPError)", resp.StatusCode)
	}
}

func TestErrorHandlerMapsValidationError(t *testing.T) {
	app := newErrorTestApp(domain.ErrValidation)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for domain.ErrValidation", resp.StatusCode)
	}
}

func TestErrorHandlerFallsBackTo500ForUnknownError(t *testing.T) {
	app := newErrorTestApp(errors.New("unrecognized failure"))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for an unrecognized error", resp.StatusCode)
	}
}

func TestErrorHandlerRespectsFiberError(t *testing.T) {
	app := newErrorTestApp(fiber.NewError(fiber.StatusTeapot, "I'm a teapot"))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Fatalf("status = %d, want 418 for an explicit *fiber.Error", resp.StatusCode)
	}
}
