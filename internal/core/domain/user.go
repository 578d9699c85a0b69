package domain

import "strings"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
	RoleClient   = "client"
)

// roles is the closed set a session role must belong to.
var roles = map[string]struct{}{
	RoleEmployee: {},
	RoleAdmin:    {},
	RoleClient:   {},
}

// NormalizeRole lower-cases and trims a stored role value and reports whether
// it belongs to the fixed role set.
func NormalizeRole(raw string) (string, bool) {
	role := strings.ToLower(strings.TrimSpace(raw))
	_, ok := roles[role]
	return role, ok
}

// Credential is the read-only view of a User row used to authenticate.
type Credential struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	ClientID     *int64
}

// Session is the signed-in user as persisted in the session store. It never
// carries the password hash.
type Session struct {
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID *int64 `json:"clientId,omitempty"`
}

// NewSession builds a session from a verified credential.
func NewSession(c *Credential, role string) *Session {
	s := &Session{
		UserID: c.ID,
		Name:   c.Name,
		Email:  c.Email,
		Role:   role,
	}
	if c.ClientID != nil {
		id := *c.ClientID
		s.ClientID = &id
	}
	return s
}

// Valid reports whether a decoded session is usable.
func (s *Session) Valid() bool {
	if s == nil || s.UserID == 0 {
		return false
	}
	_, ok := roles[s.Role]
	return ok
}

// HasRole reports whether the session role matches any of the given roles,
// ignoring case.
func (s *Session) HasRole(allowed ...string) bool {
	if s == nil {
		return false
	}
	for _, r := range allowed {
		if strings.EqualFold(strings.TrimSpace(r), s.Role) {
			return true
		}
	}
	return false
}

// AuthState is the lifecycle of a profile's authentication.
type AuthState int

const (
	StateUnknown AuthState = iota
	StateAuthenticated
	StateAnonymous
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}
