package domain

import "time"

// Project is the typed view of a Project row after field resolution.
type Project struct {
	ID           int64     `json:"id"`
	ProjectNo    string    `json:"projectNo,omitempty"`
	SolProjectNo string    `json:"solProjectNo,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ClientID     *int64    `json:"clientId,omitempty"`
	ClientName   string    `json:"clientName,omitempty"`
	TeamLeadID   *int64    `json:"teamLeadId,omitempty"`
	TeamLeadName string    `json:"teamLeadName,omitempty"`
	ClientPMID   *int64    `json:"clientPmId,omitempty"`
	Status       string    `json:"status"`
	RawStatus    string    `json:"rawStatus,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	Progress     float64   `json:"progress"`
	Branch       string    `json:"branch,omitempty"`
	StartDate    time.Time `json:"startDate,omitzero"`
	EndDate      time.Time `json:"endDate,omitzero"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

// Client is the typed view of a Client row with its derived counters.
type Client struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	CompanyName      string    `json:"companyName,omitempty"`
	Email            string    `json:"email,omitempty"`
	ContactNo        string    `json:"contactNo,omitempty"`
	Address          string    `json:"address,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
	LastActivityDate time.Time `json:"lastActivityDate,omitzero"`
	TotalProjects    int       `json:"totalProjects"`
	ActiveProjects   int       `json:"activeProjects"`
	Status           string    `json:"status"`
}

// Synthetic client statuses.
const (
	ClientProspect = "prospect"
	ClientActive   = "active"
	ClientInactive = "inactive"
)

// Package is a deliverable package submitted for a project.
type Package struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"projectId"`
	Name          string    `json:"name"`
	PackageNumber string    `json:"packageNumber,omitempty"`
	Status        string    `json:"status,omitempty"`
	TentativeDate time.Time `json:"tentativeDate,omitzero"`
	IssueDate     time.Time `json:"issueDate,omitzero"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
}

// RFI is a request for information raised on a project.
type RFI struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	RFINumber string    `json:"rfiNumber,omitempty"`
	Date      time.Time `json:"date,omitzero"`
	Status    string    `json:"status,omitempty"`
	Remark    string    `json:"remark,omitempty"`
}

// Member is an internal team lead or a client-side project manager.
type Member struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	ContactNo string `json:"contactNo,omitempty"`
	Role      string `json:"role"`
	ClientID  *int64 `json:"clientId,omitempty"`
	SolTLNo   string `json:"solTlNo,omitempty"`
}
