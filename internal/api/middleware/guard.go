package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/core/gate"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

// Denial is the body of a 401 or 403 from the guards.
type Denial struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
	From     string `json:"from,omitempty"`
}

// RequireAuth lets requests with a session through and answers 401 with the
// login redirect otherwise.
func RequireAuth(g gate.Gate, metrics ports.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.RequireAuthenticated(SessionFrom(c), c.Request().URL.RequestURI())
			if d.Allow {
				return next(c)
			}
			metrics.GateDenied("unauthenticated")
			return c.JSON(http.StatusUnauthorized, Denial{
				Error:    "authentication required",
				Redirect: d.Redirect,
				From:     d.From,
			})
		}
	}
}

// RequireRole answers 403 with the default redirect unless the session holds
// one of roles. Anonymous requests get the 401 of RequireAuth.
func RequireRole(g gate.Gate, metrics ports.Metrics, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := SessionFrom(c)
			if s == nil {
				return RequireAuth(g, metrics)(next)(c)
			}
			d := g.RequireRole(s, roles...)
			if d.Allow {
				return next(c)
			}
			metrics.GateDenied("forbidden")
			return c.JSON(http.StatusForbidden, Denial{Error: "forbidden", Redirect: d.Redirect})
		}
	}
}
