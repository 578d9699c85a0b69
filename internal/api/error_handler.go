package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// errorResponse is the error envelope of every API error. Completed and
// Failed are only set for partial writes.
type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Completed string `json:"completed,omitempty"`
	Failed    string `json:"failed,omitempty"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders them as
// {"error": "..."}. Unexpected errors are logged and reported as 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var partial *domain.PartialWriteError
	if errors.As(err, &partial) {
		log.Error().
			Err(partial.Err).
			Str("completed", partial.Completed).
			Str("failed", partial.Failed).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("partial write")
		return http.StatusBadGateway, errorResponse{
			Error:     "partial write",
			Completed: partial.Completed,
			Failed:    partial.Failed,
		}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend unavailable")
		return http.StatusServiceUnavailable, errorResponse{Error: "backend unavailable"}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
