package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]Check
		wantCode int
	}{
		{
			name: "all healthy",
			checks: map[string]Check{
				"store": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return nil },
			},
			wantCode: http.StatusOK,
		},
		{
			name: "redis down",
			checks: map[string]Check{
				"store": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return errors.New("connection refused") },
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&memberRequest{Name: "Tara", Email: "not-an-email", Password: "secret1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Error() != "email: email must be a valid email" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err := v.Validate(&projectRequest{Name: "North"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
