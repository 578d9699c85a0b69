// Package gate decides whether a route may render for the current session.
// Decisions are pure; transports turn them into responses.
package gate

import "github.com/steelvault/project-dashboard/internal/core/domain"

const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/"
)

// Decision is the outcome of a guard. When Allow is false the caller should
// send the user to Redirect; From carries the originally requested path for
// the login round trip.
type Decision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
	From     string `json:"from,omitempty"`
}

// Gate holds the redirect targets of the guards.
type Gate struct {
	LoginPath   string
	DefaultPath string
}

// New returns a Gate, substituting the defaults for empty paths.
func New(loginPath, defaultPath string) Gate {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if defaultPath == "" {
		defaultPath = DefaultHomePath
	}
	return Gate{LoginPath: loginPath, DefaultPath: defaultPath}
}

// RequireAuthenticated allows any present session and otherwise redirects to
// the login path, remembering requestedPath.
func (g Gate) RequireAuthenticated(s *domain.Session, requestedPath string) Decision {
	if s != nil {
		return Decision{Allow: true}
	}
	return Decision{Redirect: g.LoginPath, From: requestedPath}
}

// RequireRole allows sessions whose role is one of allowed, ignoring case.
// Everything else, a nil session included, goes to the default path.
func (g Gate) RequireRole(s *domain.Session, allowed ...string) Decision {
	if s.HasRole(allowed...) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: g.DefaultPath}
}
