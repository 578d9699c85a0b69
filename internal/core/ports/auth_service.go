package ports

import (
	"context"

	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// LoginInput carries the credentials and, optionally, the profile whose
// session should be replaced. An empty Profile mints a new one.
type LoginInput struct {
	Profile  string
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token   string
	Profile string
	Session *domain.Session
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, profile string) error
	CurrentSession(ctx context.Context, profile string) *domain.Session
	State(ctx context.Context, profile string) (domain.AuthState, *domain.Session)
	ParseToken(token string) (string, error)
}
