package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// Defaults applied to new projects.
const (
	DefaultProjectStatus   = domain.StatusLive
	DefaultProjectPriority = "MEDIUM"
)

// ProjectService manages projects and the RFIs and packages filed against them.
type ProjectService struct {
	store    ports.TableStore
	resolver *schema.Resolver
	log      zerolog.Logger
	now      func() time.Time
}

// NewProjectService returns a project service over store.
func NewProjectService(store ports.TableStore, resolver *schema.Resolver, log zerolog.Logger) *ProjectService {
	return &ProjectService{store: store, resolver: resolver, log: log, now: time.Now}
}

func (s *ProjectService) table(e schema.Entity) string { return s.resolver.Table(e) }

// List returns the projects visible in scope, newest first, with client and
// team lead names filled in.
func (s *ProjectService) List(ctx context.Context, in ports.ListProjectsInput) ([]domain.Project, error) {
	q := ports.From(s.table(schema.EntityProject)).Order("createdAt", false)
	projects, err := loadProjects(ctx, s.store, s.resolver, in.Scope, q)
	if err != nil {
		return nil, err
	}

	status := ""
	if in.Status != "" {
		status = domain.NormalizeStatus(in.Status)
	}
	search := strings.ToLower(strings.TrimSpace(in.Search))

	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if !sameID(in.ClientID, p.ClientID) || !sameID(in.TeamLeadID, p.TeamLeadID) {
			continue
		}
		if status != "" && !strings.EqualFold(p.Status, status) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	s.withNames(ctx, out)
	return out, nil
}

// sameID reports whether got satisfies an optional id filter.
func sameID(want, got *int64) bool {
	return want == nil || (got != nil && *got == *want)
}

func matchesSearch(p domain.Project, needle string) bool {
	for _, hay := range []string{p.Name, p.ProjectNo, p.SolProjectNo} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Get returns one project. Projects outside the scope are reported as not
// found.
func (s *ProjectService) Get(ctx context.Context, scope ports.Scope, id int64) (*domain.Project, error) {
	p, err := s.get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	list := []domain.Project{*p}
	s.withNames(ctx, list)
	return &list[0], nil
}

func (s *ProjectService) get(ctx context.Context, scope ports.Scope, id int64) (*domain.Project, error) {
	projects, err := loadProjects(ctx, s.store, s.resolver, scope,
		ports.From(s.table(schema.EntityProject)).Eq("id", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return &projects[0], nil
}

// Detail returns a project with its RFIs and packages.
func (s *ProjectService) Detail(ctx context.Context, scope ports.Scope, id int64) (*ports.ProjectDetail, error) {
	p, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	rfiRows, err := projectChildren(ctx, s.store, s.resolver, schema.EntityRFI, id)
	if err != nil {
		return nil, err
	}
	pkgRows, err := projectChildren(ctx, s.store, s.resolver, schema.EntityPackage, id)
	if err != nil {
		return nil, err
	}

	d := &ports.ProjectDetail{
		Project:  *p,
		RFIs:     make([]domain.RFI, 0, len(rfiRows)),
		Packages: make([]domain.Package, 0, len(pkgRows)),
	}
	for _, row := range rfiRows {
		d.RFIs = append(d.RFIs, rfiFromRow(s.resolver, row))
	}
	for _, row := range pkgRows {
		d.Packages = append(d.Packages, packageFromRow(s.resolver, row))
	}
	sortByDate(d.RFIs, func(r domain.RFI) time.Time { return r.Date })
	sortByDate(d.Packages, func(p domain.Package) time.Time { return p.TentativeDate })
	return d, nil
}

// Create stores a new project. solProjectNo, name and clientId are required.
func (s *ProjectService) Create(ctx context.Context, in ports.ProjectInput) (*domain.Project, error) {
	solNo := strings.TrimSpace(in.SolProjectNo)
	name := strings.TrimSpace(in.Name)
	switch {
	case solNo == "":
		return nil, domain.Required("solProjectNo")
	case name == "":
		return nil, domain.Required("name")
	case in.ClientID == nil:
		return nil, domain.Required("clientId")
	}

	now := s.now().UTC()
	projectNo := strings.TrimSpace(in.ProjectNo)
	if projectNo == "" {
		projectNo = fmt.Sprintf("P-%d", now.UnixMilli())
	}
	status := DefaultProjectStatus
	if in.Status != "" {
		status = domain.NormalizeStatus(strings.TrimSpace(in.Status))
	}
	priority := DefaultProjectPriority
	if in.Priority != "" {
		priority = strings.ToUpper(strings.TrimSpace(in.Priority))
	}
	progress := 0.0
	if in.Progress != nil {
		progress = *in.Progress
	}

	row := schema.Row{
		"projectNo":    projectNo,
		"solProjectNo": solNo,
		"name":         name,
		"description":  nullable(in.Description),
		"clientId":     *in.ClientID,
		"status":       status,
		"priority":     priority,
		"progress":     progress,
		"branch":       nullable(in.Branch),
		"solTLId":      nullableID(in.TeamLeadID),
		"clientPm":     nullableID(in.ClientPMID),
		"startDate":    nullableTime(in.StartDate),
		"endDate":      nullableTime(in.EndDate),
		"createdAt":    now,
	}
	stored, err := s.store.Insert(ctx, s.table(schema.EntityProject), row)
	if err != nil {
		return nil, err
	}
	p := projectFromRow(s.resolver, stored)
	s.log.Info().Int64("project_id", p.ID).Str("sol_project_no", solNo).Msg("project created")
	return &p, nil
}

// Update patches a project. Empty strings and nil pointers are left alone.
func (s *ProjectService) Update(ctx context.Context, id int64, in ports.ProjectInput) (*domain.Project, error) {
	patch := schema.Row{}
	setText := func(col, v string) {
		if v = strings.TrimSpace(v); v != "" {
			patch[col] = v
		}
	}
	setText("projectNo", in.ProjectNo)
	setText("solProjectNo", in.SolProjectNo)
	setText("name", in.Name)
	setText("description", in.Description)
	setText("branch", in.Branch)
	if in.Status != "" {
		patch["status"] = domain.NormalizeStatus(strings.TrimSpace(in.Status))
	}
	if in.Priority != "" {
		patch["priority"] = strings.ToUpper(strings.TrimSpace(in.Priority))
	}
	if in.ClientID != nil {
		patch["clientId"] = *in.ClientID
	}
	if in.TeamLeadID != nil {
		patch["solTLId"] = *in.TeamLeadID
	}
	if in.ClientPMID != nil {
		patch["clientPm"] = *in.ClientPMID
	}
	if in.Progress != nil {
		patch["progress"] = *in.Progress
	}
	if in.StartDate != nil {
		patch["startDate"] = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		patch["endDate"] = in.EndDate.UTC()
	}
	if len(patch) == 0 {
		return s.get(ctx, ports.Scope{}, id)
	}
	return s.update(ctx, id, patch)
}

// AssignTeamLead sets or clears the team lead of a project.
func (s *ProjectService) AssignTeamLead(ctx context.Context, id int64, teamLeadID *int64) (*domain.Project, error) {
	p, err := s.update(ctx, id, schema.Row{"solTLId": nullableID(teamLeadID)})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("project_id", id).Interface("team_lead_id", teamLeadID).Msg("team lead assigned")
	return p, nil
}

func (s *ProjectService) update(ctx context.Context, id int64, patch schema.Row) (*domain.Project, error) {
	stored, err := s.store.Update(ctx, s.table(schema.EntityProject), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	p := projectFromRow(s.resolver, stored)
	return &p, nil
}

// Delete removes a project after its packages and RFIs. A failure after the
// first step returns a *domain.PartialWriteError; nothing is restored.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, ports.Scope{}, id); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"packages", func() error { return s.deleteChildren(ctx, schema.EntityPackage, id) }},
		{"rfis", func() error { return s.deleteChildren(ctx, schema.EntityRFI, id) }},
		{"project", func() error {
			_, err := s.store.Delete(ctx, ports.From(s.table(schema.EntityProject)).Eq("id", id))
			return err
		}},
	}
	var done []string
	for _, st := range steps {
		if err := st.run(); err != nil {
			s.log.Error().Err(err).Int64("project_id", id).Str("step", st.name).Msg("project delete failed")
			if len(done) == 0 {
				return err
			}
			return &domain.PartialWriteError{
				Completed: strings.Join(done, ", "),
				Failed:    st.name,
				Err:       err,
			}
		}
		done = append(done, st.name)
	}
	s.log.Info().Int64("project_id", id).Msg("project deleted")
	return nil
}

// deleteChildren deletes the package or RFI rows of a project, once per
// column the foreign key was found under.
func (s *ProjectService) deleteChildren(ctx context.Context, e schema.Entity, projectID int64) error {
	rows, err := projectChildren(ctx, s.store, s.resolver, e, projectID)
	if err != nil {
		return err
	}
	var cols []string
	for _, row := range rows {
		if c, ok := s.resolver.Column(e, row, projectKey(e)); ok && !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	for _, c := range cols {
		if _, err := s.store.Delete(ctx, ports.From(s.table(e)).Eq(c, projectID)); err != nil {
			return err
		}
	}
	return nil
}

// AddRFI records an RFI against an existing project.
func (s *ProjectService) AddRFI(ctx context.Context, projectID int64, in ports.RFIInput) (*domain.RFI, error) {
	if _, err := s.get(ctx, ports.Scope{}, projectID); err != nil {
		return nil, err
	}
	row := schema.Row{
		"projectId": projectID,
		"rfiNumber": nullable(in.RFINumber),
		"date":      nullableTime(&in.Date),
		"status":    nullable(in.Status),
		"remark":    nullable(in.Remark),
	}
	stored, err := s.store.Insert(ctx, s.table(schema.EntityRFI), row)
	if err != nil {
		return nil, err
	}
	rfi := rfiFromRow(s.resolver, stored)
	return &rfi, nil
}

// AddPackage records a package submission. The name is required.
func (s *ProjectService) AddPackage(ctx context.Context, projectID int64, in ports.PackageInput) (*domain.Package, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Required("name")
	}
	if _, err := s.get(ctx, ports.Scope{}, projectID); err != nil {
		return nil, err
	}
	row := schema.Row{
		"projectid":     projectID,
		"name":          name,
		"packagenumber": nullable(in.PackageNumber),
		"status":        nullable(in.Status),
		"tentativedate": nullableTime(in.TentativeDate),
		"issuedate":     nullableTime(in.IssueDate),
		"createdat":     s.now().UTC(),
	}
	stored, err := s.store.Insert(ctx, s.table(schema.EntityPackage), row)
	if err != nil {
		return nil, err
	}
	pkg := packageFromRow(s.resolver, stored)
	return &pkg, nil
}

// withNames fills client and team lead names in place.
func (s *ProjectService) withNames(ctx context.Context, projects []domain.Project) {
	if len(projects) == 0 {
		return
	}
	var clientIDs, leadIDs []string
	seen := map[string]bool{}
	for _, p := range projects {
		if k, ok := int64Key(p.ClientID); ok && !seen["c"+k] {
			seen["c"+k] = true
			clientIDs = append(clientIDs, k)
		}
		if k, ok := int64Key(p.TeamLeadID); ok && !seen["u"+k] {
			seen["u"+k] = true
			leadIDs = append(leadIDs, k)
		}
	}
	clients := lookupNames(ctx, s.store, s.resolver, s.log, schema.EntityClient, clientIDs, func(row schema.Row) string {
		return clientName(s.resolver, row)
	})
	leads := lookupNames(ctx, s.store, s.resolver, s.log, schema.EntityUser, leadIDs, func(row schema.Row) string {
		return userName(s.resolver, row)
	})
	for i := range projects {
		if k, ok := int64Key(projects[i].ClientID); ok {
			projects[i].ClientName = labeler(clients, "Client ")(k)
		}
		if k, ok := int64Key(projects[i].TeamLeadID); ok {
			projects[i].TeamLeadName = labeler(leads, "User ")(k)
		}
	}
}

func nullable(v string) any {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return v
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}
