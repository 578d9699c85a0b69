package handler

import (
	"time"

	"github.com/steelvault/project-dashboard/internal/core/aggregate"
	"github.com/steelvault/project-dashboard/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error
// handler. Completed and Failed are set on partial writes only.
type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Completed string `json:"completed,omitempty"`
	Failed    string `json:"failed,omitempty"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Profile string          `json:"profile"`
	User    *domain.Session `json:"user"`
}

type sessionResponse struct {
	State string          `json:"state"`
	User  *domain.Session `json:"user,omitempty"`
}

// --- Dashboard ---

type overviewResponse struct {
	ActiveProjects  int `json:"activeProjects"`
	UniqueClients   int `json:"uniqueClients"`
	UniqueTeamLeads int `json:"uniqueTeamLeads"`
	TotalProjects   int `json:"totalProjects"`
}

type sliceResponse struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	Count      int             `json:"count"`
	Percentage string          `json:"percentage"`
	Members    []sliceResponse `json:"members,omitempty"`
}

type breakdownResponse struct {
	Total  int             `json:"total"`
	Slices []sliceResponse `json:"slices"`
}

type clientRankResponse struct {
	ClientID     int64   `json:"clientId"`
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	ProjectCount int     `json:"projectCount"`
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	ContactNo    string  `json:"contactNo,omitempty"`
}

type importanceTotalsResponse struct {
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Prospect  int `json:"prospect"`
	Strategic int `json:"strategic"`
	Key       int `json:"key"`
	Total     int `json:"total"`
}

type importanceResponse struct {
	Totals importanceTotalsResponse `json:"totals"`
	Top    []clientRankResponse     `json:"top"`
}

type workloadResponse struct {
	Granularity aggregate.Granularity `json:"granularity"`
	TeamLeadID  *int64                `json:"teamLeadId,omitempty"`
	Points      []aggregate.Point     `json:"points"`
}

type upcomingPackageResponse struct {
	domain.Package
	ProjectName  string `json:"projectName"`
	ClientName   string `json:"clientName"`
	TeamLeadName string `json:"teamLeadName"`
}

// --- Projects ---

type projectRequest struct {
	ProjectNo    string     `json:"projectNo"`
	SolProjectNo string     `json:"solProjectNo"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ClientID     *int64     `json:"clientId"     validate:"omitempty,gt=0"`
	TeamLeadID   *int64     `json:"teamLeadId"   validate:"omitempty,gt=0"`
	ClientPMID   *int64     `json:"clientPmId"   validate:"omitempty,gt=0"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Progress     *float64   `json:"progress"     validate:"omitempty,gte=0,lte=100"`
	Branch       string     `json:"branch"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

// teamLeadRequest assigns or, with a null id, clears the team lead.
type teamLeadRequest struct {
	TeamLeadID *int64 `json:"teamLeadId" validate:"omitempty,gt=0"`
}

type rfiRequest struct {
	RFINumber string    `json:"rfiNumber"`
	Date      time.Time `json:"date"   validate:"required"`
	Status    string    `json:"status"`
	Remark    string    `json:"remark"`
}

type packageRequest struct {
	Name          string     `json:"name"`
	PackageNumber string     `json:"packageNumber"`
	Status        string     `json:"status"`
	TentativeDate *time.Time `json:"tentativeDate"`
	IssueDate     *time.Time `json:"issueDate"`
}

type projectDetailResponse struct {
	Project  domain.Project   `json:"project"`
	RFIs     []domain.RFI     `json:"rfis"`
	Packages []domain.Package `json:"packages"`
}

// --- Clients and team ---

type memberRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"     validate:"omitempty,email"`
	Password  string `json:"password"  validate:"omitempty,min=6"`
	ContactNo string `json:"contactNo"`
	SolTLNo   string `json:"solTlNo"`
	ClientID  *int64 `json:"clientId"  validate:"omitempty,gt=0"`
}

type clientRequest struct {
	Name        string         `json:"name"`
	CompanyName string         `json:"companyName"`
	Email       string         `json:"email"     validate:"omitempty,email"`
	ContactNo   string         `json:"contactNo"`
	Address     string         `json:"address"`
	Notes       string         `json:"notes"`
	PM          *memberRequest `json:"pm,omitempty"`
}
