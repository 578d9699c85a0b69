package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/api/middleware"
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

// scopeOf is the read scope of the signed-in user.
func scopeOf(c echo.Context) ports.Scope {
	return ports.ScopeFor(middleware.SessionFrom(c))
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

// queryID returns nil when the parameter is absent.
func queryID(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Message: "must be an integer"}
	}
	return &id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &domain.ValidationError{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &domain.ValidationError{Message: "invalid payload"}
	}
	return c.Validate(req)
}
