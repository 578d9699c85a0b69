package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/core/aggregate"
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

const defaultTopClients = 5

// DashboardHandler serves the dashboard widgets.
type DashboardHandler struct {
	service        ports.DashboardService
	otherThreshold int
}

// NewDashboardHandler uses otherThreshold for the team-lead chart unless the
// request overrides it.
func NewDashboardHandler(service ports.DashboardService, otherThreshold int) *DashboardHandler {
	return &DashboardHandler{service: service, otherThreshold: otherThreshold}
}

// Overview handles GET /v1/dashboard/overview.
//
// @Summary      Headline counts
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  overviewResponse
// @Failure      401  {object}  middleware.Denial
// @Failure      503  {object}  errorResponse
// @Router       /v1/dashboard/overview [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	o, err := h.service.Overview(c.Request().Context(), scopeOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOverviewResponse(o))
}

// Status handles GET /v1/dashboard/status.
//
// @Summary      Projects by status
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  breakdownResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/dashboard/status [get]
func (h *DashboardHandler) Status(c echo.Context) error {
	b, err := h.service.StatusBreakdown(c.Request().Context(), scopeOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakdownResponse(b))
}

// Clients handles GET /v1/dashboard/clients.
//
// @Summary      Projects by client
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  breakdownResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/dashboard/clients [get]
func (h *DashboardHandler) Clients(c echo.Context) error {
	b, err := h.service.ClientsByProjects(c.Request().Context(), scopeOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakdownResponse(b))
}

// TeamLeads handles GET /v1/dashboard/team-leads.
//
// @Summary      Projects by team lead
// @Description  Team leads with fewer projects than threshold are folded into Other.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        threshold  query     int  false  "Other threshold"
// @Success      200        {object}  breakdownResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/dashboard/team-leads [get]
func (h *DashboardHandler) TeamLeads(c echo.Context) error {
	threshold, err := queryInt(c, "threshold", h.otherThreshold)
	if err != nil {
		return err
	}
	b, err := h.service.TeamLeadDistribution(c.Request().Context(), scopeOf(c), threshold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBreakdownResponse(b))
}

// Importance handles GET /v1/dashboard/importance.
//
// @Summary      Client importance ranking
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        top  query     int  false  "Number of clients to return"  default(5)
// @Success      200  {object}  importanceResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/dashboard/importance [get]
func (h *DashboardHandler) Importance(c echo.Context) error {
	top, err := queryInt(c, "top", defaultTopClients)
	if err != nil {
		return err
	}
	r, err := h.service.ClientImportance(c.Request().Context(), scopeOf(c), top)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toImportanceResponse(r))
}

// Workload handles GET /v1/dashboard/workload.
//
// @Summary      Package submission timeline
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        granularity  query     string  false  "day, week, month or year"  default(week)
// @Param        teamLeadId   query     int     false  "Team lead view"
// @Success      200          {object}  workloadResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/dashboard/workload [get]
func (h *DashboardHandler) Workload(c echo.Context) error {
	g, err := aggregate.ParseGranularity(c.QueryParam("granularity"))
	if err != nil {
		return &domain.ValidationError{Field: "granularity", Message: err.Error()}
	}
	tl, err := queryID(c, "teamLeadId")
	if err != nil {
		return err
	}

	points, err := h.service.Workload(c.Request().Context(), ports.WorkloadInput{
		Scope:       scopeOf(c),
		Granularity: g,
		TeamLeadID:  tl,
	})
	if err != nil {
		return err
	}
	if points == nil {
		points = []aggregate.Point{}
	}
	return c.JSON(http.StatusOK, workloadResponse{Granularity: g, TeamLeadID: tl, Points: points})
}

// Upcoming handles GET /v1/admin/upcoming-packages.
//
// @Summary      Packages due soon
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        window  query     string  false  "Look-ahead as a duration, e.g. 48h"  default(24h)
// @Success      200     {array}   upcomingPackageResponse
// @Failure      403     {object}  middleware.Denial
// @Failure      422     {object}  errorResponse
// @Router       /v1/admin/upcoming-packages [get]
func (h *DashboardHandler) Upcoming(c echo.Context) error {
	var window time.Duration
	if raw := strings.TrimSpace(c.QueryParam("window")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return &domain.ValidationError{Field: "window", Message: "must be a positive duration"}
		}
		window = d
	}
	pkgs, err := h.service.UpcomingPackages(c.Request().Context(), window)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUpcomingResponse(pkgs))
}
