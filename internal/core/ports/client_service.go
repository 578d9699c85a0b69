package ports

import (
	"context"

	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// ClientInput creates or patches a client. PM, when set on create, adds an
// initial client-side project manager after the client row is stored.
type ClientInput struct {
	Name        string
	CompanyName string
	Email       string
	ContactNo   string
	Address     string
	Notes       string
	PM          *MemberInput
}

type ClientService interface {
	List(ctx context.Context, scope Scope) ([]domain.Client, error)
	Get(ctx context.Context, scope Scope, id int64) (*domain.Client, error)
	Create(ctx context.Context, input ClientInput) (*domain.Client, error)
	Update(ctx context.Context, id int64, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}

// MemberInput creates a team lead or a client PM.
type MemberInput struct {
	Name      string
	Email     string
	Password  string
	ContactNo string
	SolTLNo   string
	ClientID  *int64
}

type TeamService interface {
	ListTeamLeads(ctx context.Context) ([]domain.Member, error)
	// ListClientPMs lists client-side users, optionally for one client.
	ListClientPMs(ctx context.Context, clientID *int64) ([]domain.Member, error)
	CreateTeamLead(ctx context.Context, input MemberInput) (*domain.Member, error)
	CreateClientPM(ctx context.Context, input MemberInput) (*domain.Member, error)
	DeleteUser(ctx context.Context, id int64) error
}
