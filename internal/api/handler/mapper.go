package handler

import (
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

// --- Request → Service input ---

func toProjectInput(req projectRequest) ports.ProjectInput {
	return ports.ProjectInput{
		ProjectNo:    req.ProjectNo,
		SolProjectNo: req.SolProjectNo,
		Name:         req.Name,
		Description:  req.Description,
		ClientID:     req.ClientID,
		TeamLeadID:   req.TeamLeadID,
		ClientPMID:   req.ClientPMID,
		Status:       req.Status,
		Priority:     req.Priority,
		Progress:     req.Progress,
		Branch:       req.Branch,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
}

func toRFIInput(req rfiRequest) ports.RFIInput {
	return ports.RFIInput{
		RFINumber: req.RFINumber,
		Date:      req.Date,
		Status:    req.Status,
		Remark:    req.Remark,
	}
}

func toPackageInput(req packageRequest) ports.PackageInput {
	return ports.PackageInput{
		Name:          req.Name,
		PackageNumber: req.PackageNumber,
		Status:        req.Status,
		TentativeDate: req.TentativeDate,
		IssueDate:     req.IssueDate,
	}
}

func toMemberInput(req memberRequest) ports.MemberInput {
	return ports.MemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		ContactNo: req.ContactNo,
		SolTLNo:   req.SolTLNo,
		ClientID:  req.ClientID,
	}
}

func toClientInput(req clientRequest) ports.ClientInput {
	in := ports.ClientInput{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		ContactNo:   req.ContactNo,
		Address:     req.Address,
		Notes:       req.Notes,
	}
	if req.PM != nil {
		pm := toMemberInput(*req.PM)
		in.PM = &pm
	}
	return in
}

// --- Service output → Response ---

func toOverviewResponse(o *ports.Overview) overviewResponse {
	return overviewResponse{
		ActiveProjects:  o.ActiveProjects,
		UniqueClients:   o.UniqueClients,
		UniqueTeamLeads: o.UniqueTeamLeads,
		TotalProjects:   o.TotalProjects,
	}
}

func toSlices(in []ports.Slice) []sliceResponse {
	out := make([]sliceResponse, 0, len(in))
	for _, s := range in {
		out = append(out, sliceResponse{
			Key:        s.Key,
			Label:      s.Label,
			Count:      s.Count,
			Percentage: s.Percentage,
			Members:    toMembers(s.Members),
		})
	}
	return out
}

func toMembers(in []ports.Slice) []sliceResponse {
	if len(in) == 0 {
		return nil
	}
	return toSlices(in)
}

func toBreakdownResponse(b *ports.Breakdown) breakdownResponse {
	return breakdownResponse{Total: b.Total, Slices: toSlices(b.Slices)}
}

func toImportanceResponse(r *ports.ImportanceReport) importanceResponse {
	top := make([]clientRankResponse, 0, len(r.Top))
	for _, c := range r.Top {
		top = append(top, clientRankResponse{
			ClientID:     c.ClientID,
			Name:         c.Name,
			Status:       c.Status,
			ProjectCount: c.ProjectCount,
			Score:        c.Score,
			Label:        c.Label,
			ContactNo:    c.ContactNo,
		})
	}
	return importanceResponse{
		Totals: importanceTotalsResponse{
			Active:    r.Totals.Active,
			Inactive:  r.Totals.Inactive,
			Prospect:  r.Totals.Prospect,
			Strategic: r.Totals.Strategic,
			Key:       r.Totals.Key,
			Total:     r.Totals.Total,
		},
		Top: top,
	}
}

func toUpcomingResponse(in []ports.UpcomingPackage) []upcomingPackageResponse {
	out := make([]upcomingPackageResponse, 0, len(in))
	for _, u := range in {
		out = append(out, upcomingPackageResponse{
			Package:      u.Package,
			ProjectName:  u.ProjectName,
			ClientName:   u.ClientName,
			TeamLeadName: u.TeamLeadName,
		})
	}
	return out
}

func toDetailResponse(d *ports.ProjectDetail) projectDetailResponse {
	resp := projectDetailResponse{Project: d.Project, RFIs: d.RFIs, Packages: d.Packages}
	if resp.RFIs == nil {
		resp.RFIs = []domain.RFI{}
	}
	if resp.Packages == nil {
		resp.Packages = []domain.Package{}
	}
	return resp
}
