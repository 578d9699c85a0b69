package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/core/domain"
)

const (
	sessionKey = "session"
	profileKey = "profile"
)

// SessionResolver turns a bearer token into the stored session.
type SessionResolver interface {
	ParseToken(token string) (string, error)
	CurrentSession(ctx context.Context, profile string) *domain.Session
}

// Session resolves the bearer token, when there is one, and stores the
// profile and its session on the context. It never rejects a request; the
// guards decide.
func Session(auth SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}
			profile, err := auth.ParseToken(token)
			if err != nil {
				return next(c)
			}
			c.Set(profileKey, profile)
			if s := auth.CurrentSession(c.Request().Context(), profile); s != nil {
				c.Set(sessionKey, s)
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Session, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}

// ProfileFrom returns the profile named by a valid token, or "".
func ProfileFrom(c echo.Context) string {
	p, _ := c.Get(profileKey).(string)
	return p
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
