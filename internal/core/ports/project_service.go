package ports

import (
	"context"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// Scope restricts reads to what a session may see. Client sessions are
// limited to their own client; everyone else sees all rows.
type Scope struct {
	Restricted bool
	ClientID   int64
}

// ScopeFor derives the read scope of a session. A client session without a
// client id is restricted to nothing.
func ScopeFor(s *domain.Session) Scope {
	if s == nil || s.Role != domain.RoleClient {
		return Scope{}
	}
	sc := Scope{Restricted: true}
	if s.ClientID != nil {
		sc.ClientID = *s.ClientID
	}
	return sc
}

// Allows reports whether a row owned by clientID is visible in the scope.
func (s Scope) Allows(clientID *int64) bool {
	if !s.Restricted {
		return true
	}
	return clientID != nil && *clientID == s.ClientID && s.ClientID != 0
}

// ListProjectsInput carries the list filters. Status is compared on
// normalized labels; Search matches name, projectNo and solProjectNo.
type ListProjectsInput struct {
	Scope      Scope
	Status     string
	Search     string
	ClientID   *int64
	TeamLeadID *int64
}

// ProjectInput is used for create and as a patch for update, where empty
// strings and nil pointers leave the stored value untouched.
type ProjectInput struct {
	ProjectNo    string
	SolProjectNo string
	Name         string
	Description  string
	ClientID     *int64
	TeamLeadID   *int64
	ClientPMID   *int64
	Status       string
	Priority     string
	Progress     *float64
	Branch       string
	StartDate    *time.Time
	EndDate      *time.Time
}

// RFIInput carries a new request for information.
type RFIInput struct {
	RFINumber string
	Date      time.Time
	Status    string
	Remark    string
}

// PackageInput carries a new package submission.
type PackageInput struct {
	Name          string
	PackageNumber string
	Status        string
	TentativeDate *time.Time
	IssueDate     *time.Time
}

// ProjectDetail is a project with its RFIs and packages.
type ProjectDetail struct {
	Project  domain.Project
	RFIs     []domain.RFI
	Packages []domain.Package
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	List(ctx context.Context, input ListProjectsInput) ([]domain.Project, error)
	Get(ctx context.Context, scope Scope, id int64) (*domain.Project, error)
	Detail(ctx context.Context, scope Scope, id int64) (*ProjectDetail, error)
	Create(ctx context.Context, input ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id int64, input ProjectInput) (*domain.Project, error)
	// AssignTeamLead sets or, with a nil id, clears the project's team lead.
	AssignTeamLead(ctx context.Context, id int64, teamLeadID *int64) (*domain.Project, error)
	Delete(ctx context.Context, id int64) error
	AddRFI(ctx context.Context, projectID int64, input RFIInput) (*domain.RFI, error)
	AddPackage(ctx context.Context, projectID int64, input PackageInput) (*domain.Package, error)
}
