package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/aggregate"
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

type stubDashboardService struct {
	ports.DashboardService
	teamLeadsFn func(ctx context.Context, scope ports.Scope, threshold int) (*ports.Breakdown, error)
	overviewFn  func(ctx context.Context, scope ports.Scope) (*ports.Overview, error)
	workloadFn  func(ctx context.Context, in ports.WorkloadInput) ([]aggregate.Point, error)
	upcomingFn  func(ctx context.Context, window time.Duration) ([]ports.UpcomingPackage, error)
}

func (s *stubDashboardService) Overview(ctx context.Context, scope ports.Scope) (*ports.Overview, error) {
	return s.overviewFn(ctx, scope)
}

func (s *stubDashboardService) TeamLeadDistribution(ctx context.Context, scope ports.Scope, threshold int) (*ports.Breakdown, error) {
	return s.teamLeadsFn(ctx, scope, threshold)
}

func (s *stubDashboardService) Workload(ctx context.Context, in ports.WorkloadInput) ([]aggregate.Point, error) {
	return s.workloadFn(ctx, in)
}

func (s *stubDashboardService) UpcomingPackages(ctx context.Context, window time.Duration) ([]ports.UpcomingPackage, error) {
	return s.upcomingFn(ctx, window)
}

func TestDashboardHandler_Overview_ClientScope(t *testing.T) {
	e := newEcho()
	clientID := int64(4)
	stub := &stubDashboardService{
		overviewFn: func(ctx context.Context, scope ports.Scope) (*ports.Overview, error) {
			if !scope.Restricted || scope.ClientID != 4 {
				t.Fatalf("unexpected scope %+v", scope)
			}
			return &ports.Overview{ActiveProjects: 1, UniqueClients: 1, UniqueTeamLeads: 1, TotalProjects: 2}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/dashboard/overview", nil), rec)
	c.Set("session", &domain.Session{UserID: 9, Role: domain.RoleClient, ClientID: &clientID})

	if err := NewDashboardHandler(stub, 5).Overview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp overviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != (overviewResponse{ActiveProjects: 1, UniqueClients: 1, UniqueTeamLeads: 1, TotalProjects: 2}) {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestDashboardHandler_TeamLeads_Threshold(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"configured default", "", 3},
		{"override", "?threshold=1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubDashboardService{
				teamLeadsFn: func(ctx context.Context, scope ports.Scope, threshold int) (*ports.Breakdown, error) {
					if threshold != tt.want {
						t.Fatalf("threshold = %d, want %d", threshold, tt.want)
					}
					return &ports.Breakdown{Total: 3, Slices: []ports.Slice{
						{Key: "10", Label: "Tara", Count: 2, Percentage: "66.7"},
						{Key: "other", Label: "Other", Count: 1, Percentage: "33.3", Members: []ports.Slice{{Key: "11", Label: "Omar", Count: 1}}},
					}}, nil
				},
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/dashboard/team-leads"+tt.query, nil), rec)

			if err := NewDashboardHandler(stub, 3).TeamLeads(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp breakdownResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Total != 3 || len(resp.Slices) != 2 || len(resp.Slices[1].Members) != 1 || resp.Slices[0].Members != nil {
				t.Fatalf("unexpected payload %+v", resp)
			}
		})
	}
}

func TestDashboardHandler_Workload(t *testing.T) {
	e := newEcho()
	stub := &stubDashboardService{
		workloadFn: func(ctx context.Context, in ports.WorkloadInput) ([]aggregate.Point, error) {
			if in.Granularity != aggregate.Month || in.TeamLeadID == nil || *in.TeamLeadID != 11 {
				t.Fatalf("unexpected input %+v", in)
			}
			return nil, nil
		},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/dashboard/workload?granularity=MONTH&teamLeadId=11", nil), rec)

	if err := NewDashboardHandler(stub, 5).Workload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if points, ok := resp["points"].([]any); !ok || len(points) != 0 {
		t.Fatalf("expected an empty points list, got %v", resp["points"])
	}
}

func TestDashboardHandler_Workload_BadGranularity(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/dashboard/workload?granularity=hourly", nil), httptest.NewRecorder())

	err := NewDashboardHandler(&stubDashboardService{}, 5).Workload(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDashboardHandler_Upcoming(t *testing.T) {
	e := newEcho()
	var gotWindow time.Duration
	stub := &stubDashboardService{
		upcomingFn: func(ctx context.Context, window time.Duration) ([]ports.UpcomingPackage, error) {
			gotWindow = window
			return []ports.UpcomingPackage{{
				Package:      domain.Package{ID: 1, ProjectID: 100, Name: "Anchor bolts"},
				ProjectName:  "North Tower",
				ClientName:   "Acme Steel",
				TeamLeadName: "—",
			}}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/admin/upcoming-packages?window=48h", nil), rec)

	if err := NewDashboardHandler(stub, 5).Upcoming(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotWindow != 48*time.Hour {
		t.Fatalf("window = %v", gotWindow)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["name"] != "Anchor bolts" || resp[0]["projectName"] != "North Tower" {
		t.Fatalf("unexpected payload %v", resp)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/admin/upcoming-packages?window=soon", nil), httptest.NewRecorder())
	if err := NewDashboardHandler(stub, 5).Upcoming(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
