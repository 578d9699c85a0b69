package ports

import (
	"context"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/aggregate"
	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// Overview backs the headline cards.
type Overview struct {
	ActiveProjects  int
	UniqueClients   int
	UniqueTeamLeads int
	TotalProjects   int
}

// Slice is one chart segment. Members is only set on the Other segment.
type Slice struct {
	Key        string
	Label      string
	Count      int
	Percentage string
	Members    []Slice
}

// Breakdown is a chart-ready distribution.
type Breakdown struct {
	Total  int
	Slices []Slice
}

// ClientRank is one client in the importance report.
type ClientRank struct {
	ClientID     int64
	Name         string
	Status       string
	ProjectCount int
	Score        float64
	Label        string
	ContactNo    string
}

// ImportanceTotals counts clients per synthetic status and top tiers.
type ImportanceTotals struct {
	Active    int
	Inactive  int
	Prospect  int
	Strategic int
	Key       int
	Total     int
}

type ImportanceReport struct {
	Totals ImportanceTotals
	Top    []ClientRank
}

// WorkloadInput selects the package timeline. TeamLeadID switches to the
// team-lead view, which prefers issue dates.
type WorkloadInput struct {
	Scope       Scope
	Granularity aggregate.Granularity
	TeamLeadID  *int64
}

// UpcomingPackage is a package due soon, with display names resolved.
type UpcomingPackage struct {
	Package      domain.Package
	ProjectName  string
	ClientName   string
	TeamLeadName string
}

// DashboardService computes the dashboard widgets. Nothing it returns is
// persisted.
type DashboardService interface {
	Overview(ctx context.Context, scope Scope) (*Overview, error)
	StatusBreakdown(ctx context.Context, scope Scope) (*Breakdown, error)
	ClientsByProjects(ctx context.Context, scope Scope) (*Breakdown, error)
	TeamLeadDistribution(ctx context.Context, scope Scope, threshold int) (*Breakdown, error)
	ClientImportance(ctx context.Context, scope Scope, top int) (*ImportanceReport, error)
	Workload(ctx context.Context, input WorkloadInput) ([]aggregate.Point, error)
	UpcomingPackages(ctx context.Context, window time.Duration) ([]UpcomingPackage, error)
}
