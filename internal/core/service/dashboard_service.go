package service

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/aggregate"
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// DefaultOtherThreshold folds team leads with fewer projects into Other.
const DefaultOtherThreshold = 5

// DefaultTopClients is the size of the importance ranking.
const DefaultTopClients = 5

// DashboardService derives the dashboard widgets from freshly read rows.
type DashboardService struct {
	store    ports.TableStore
	resolver *schema.Resolver
	log      zerolog.Logger
	metrics  ports.Metrics
	now      func() time.Time
}

// NewDashboardService returns a dashboard service. A nil metrics sink is
// replaced by a no-op.
func NewDashboardService(store ports.TableStore, resolver *schema.Resolver, log zerolog.Logger, metrics ports.Metrics) *DashboardService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &DashboardService{store: store, resolver: resolver, log: log, metrics: metrics, now: time.Now}
}

func (s *DashboardService) observe(widget string) func() {
	start := time.Now()
	return func() { s.metrics.ObserveWidget(widget, time.Since(start)) }
}

// projects reads every project visible in scope.
func (s *DashboardService) projects(ctx context.Context, scope ports.Scope) ([]domain.Project, error) {
	return loadProjects(ctx, s.store, s.resolver, scope, ports.From(s.resolver.Table(schema.EntityProject)))
}

// loadProjects reads projects and applies the scope after field resolution,
// so rows keeping the client under a historical column are scoped correctly.
func loadProjects(ctx context.Context, store ports.TableStore, r *schema.Resolver, scope ports.Scope, q ports.Query) ([]domain.Project, error) {
	if scope.Restricted && scope.ClientID == 0 {
		return nil, nil
	}
	rows, err := store.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		p := projectFromRow(r, row)
		if !scope.Allows(p.ClientID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Overview counts active projects and the distinct clients and team leads
// across all visible projects.
func (s *DashboardService) Overview(ctx context.Context, scope ports.Scope) (*ports.Overview, error) {
	defer s.observe("overview")()

	projects, err := s.projects(ctx, scope)
	if err != nil {
		return nil, err
	}
	clients := map[int64]struct{}{}
	leads := map[int64]struct{}{}
	out := &ports.Overview{TotalProjects: len(projects)}
	for _, p := range projects {
		if domain.IsActiveStatus(p.RawStatus) {
			out.ActiveProjects++
		}
		if p.ClientID != nil {
			clients[*p.ClientID] = struct{}{}
		}
		if p.TeamLeadID != nil {
			leads[*p.TeamLeadID] = struct{}{}
		}
	}
	out.UniqueClients = len(clients)
	out.UniqueTeamLeads = len(leads)
	return out, nil
}

// StatusBreakdown counts projects per normalized status. Near-completion
// statuses are left out; unknown ones are logged and kept.
func (s *DashboardService) StatusBreakdown(ctx context.Context, scope ports.Scope) (*ports.Breakdown, error) {
	defer s.observe("status")()

	projects, err := s.projects(ctx, scope)
	if err != nil {
		return nil, err
	}
	buckets := aggregate.GroupAndCount(projects, func(p domain.Project) (string, bool) {
		if p.RawStatus == "" {
			return domain.StatusUnknown, true
		}
		if domain.IsNearCompletion(p.RawStatus) {
			return "", false
		}
		label, known := domain.ClassifyStatus(p.RawStatus)
		if !known {
			s.log.Warn().Int64("project_id", p.ID).Str("status", p.RawStatus).Msg("unrecognized project status")
			s.metrics.UnknownStatus("status_breakdown")
		}
		return label, true
	})
	return toBreakdown(buckets, nil), nil
}

// ClientsByProjects counts projects per client with client names resolved.
func (s *DashboardService) ClientsByProjects(ctx context.Context, scope ports.Scope) (*ports.Breakdown, error) {
	defer s.observe("clients")()

	projects, err := s.projects(ctx, scope)
	if err != nil {
		return nil, err
	}
	buckets := aggregate.GroupAndCount(projects, func(p domain.Project) (string, bool) {
		return int64Key(p.ClientID)
	})
	names := s.names(ctx, schema.EntityClient, bucketIDs(buckets), func(row schema.Row) string {
		return clientName(s.resolver, row)
	})
	return toBreakdown(buckets, labeler(names, "Client ")), nil
}

// TeamLeadDistribution counts projects per team lead, folding small counts
// into Other.
func (s *DashboardService) TeamLeadDistribution(ctx context.Context, scope ports.Scope, threshold int) (*ports.Breakdown, error) {
	defer s.observe("team_leads")()

	if threshold <= 0 {
		threshold = DefaultOtherThreshold
	}
	projects, err := s.projects(ctx, scope)
	if err != nil {
		return nil, err
	}
	buckets := aggregate.GroupAndCount(projects, func(p domain.Project) (string, bool) {
		return int64Key(p.TeamLeadID)
	})
	names := s.names(ctx, schema.EntityUser, bucketIDs(buckets), func(row schema.Row) string {
		return userName(s.resolver, row)
	})
	return toBreakdown(aggregate.GroupWithOther(buckets, threshold), labeler(names, "User ")), nil
}

// ClientImportance scores every visible client and returns the top ones
// together with status and tier totals over all of them.
func (s *DashboardService) ClientImportance(ctx context.Context, scope ports.Scope, top int) (*ports.ImportanceReport, error) {
	defer s.observe("importance")()

	if top <= 0 {
		top = DefaultTopClients
	}
	q := ports.From(s.resolver.Table(schema.EntityClient)).Order("createdAt", false)
	if scope.Restricted {
		q = q.Eq("id", scope.ClientID)
	}
	rows, err := s.store.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects(ctx, scope)
	if err != nil {
		return nil, err
	}

	type activity struct {
		count  int
		latest time.Time
	}
	byClient := map[int64]*activity{}
	for _, p := range projects {
		if p.ClientID == nil {
			continue
		}
		a := byClient[*p.ClientID]
		if a == nil {
			a = &activity{}
			byClient[*p.ClientID] = a
		}
		a.count++
		if p.CreatedAt.After(a.latest) {
			a.latest = p.CreatedAt
		}
	}

	now := s.now()
	report := &ports.ImportanceReport{}
	ranks := make([]ports.ClientRank, 0, len(rows))
	for _, row := range rows {
		c := clientFromRow(s.resolver, row)
		status := aggregate.DeriveClientStatus(c.TotalProjects, c.ActiveProjects, c.LastActivityDate, now)
		act := aggregate.ClientActivity{Status: status, ContactNo: c.ContactNo}
		if a := byClient[c.ID]; a != nil {
			act.ProjectCount = a.count
			act.LatestProject = a.latest
		}
		score := aggregate.ScoreClient(act, now)
		label := aggregate.LabelForScore(score)

		switch status {
		case domain.ClientActive:
			report.Totals.Active++
		case domain.ClientInactive:
			report.Totals.Inactive++
		case domain.ClientProspect:
			report.Totals.Prospect++
		}
		switch label {
		case aggregate.LabelStrategic:
			report.Totals.Strategic++
		case aggregate.LabelKey:
			report.Totals.Key++
		}

		ranks = append(ranks, ports.ClientRank{
			ClientID:     c.ID,
			Name:         c.Name,
			Status:       status,
			ProjectCount: act.ProjectCount,
			Score:        score,
			Label:        label,
			ContactNo:    c.ContactNo,
		})
	}
	report.Totals.Total = len(ranks)

	sortRanks(ranks)
	if len(ranks) > top {
		ranks = ranks[:top]
	}
	report.Top = ranks
	return report, nil
}

// Workload counts package submissions per period. The overall view dates a
// package by its tentative date, else its creation; the team-lead view
// prefers the issue date.
func (s *DashboardService) Workload(ctx context.Context, in ports.WorkloadInput) ([]aggregate.Point, error) {
	defer s.observe("workload")()

	g := in.Granularity
	if g == "" {
		g = aggregate.Week
	}

	var (
		rows []schema.Row
		err  error
	)
	if in.Scope.Restricted || in.TeamLeadID != nil {
		projects, perr := s.projects(ctx, in.Scope)
		if perr != nil {
			return nil, perr
		}
		ids := make([]int64, 0, len(projects))
		for _, p := range projects {
			if in.TeamLeadID != nil && (p.TeamLeadID == nil || *p.TeamLeadID != *in.TeamLeadID) {
				continue
			}
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			return []aggregate.Point{}, nil
		}
		rows, err = projectChildren(ctx, s.store, s.resolver, schema.EntityPackage, ids...)
	} else {
		rows, err = s.store.Select(ctx, ports.From(s.resolver.Table(schema.EntityPackage)))
	}
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		p := packageFromRow(s.resolver, row)
		if in.TeamLeadID != nil {
			dates = append(dates, firstDate(p.IssueDate, p.TentativeDate, p.CreatedAt))
		} else {
			dates = append(dates, firstDate(p.TentativeDate, p.CreatedAt))
		}
	}
	return aggregate.SubmissionTimeline(dates, g), nil
}

// UpcomingPackages lists packages whose tentative date falls within window
// from now, with project, client and team lead names.
func (s *DashboardService) UpcomingPackages(ctx context.Context, window time.Duration) ([]ports.UpcomingPackage, error) {
	defer s.observe("upcoming")()

	if window <= 0 {
		window = 24 * time.Hour
	}
	// The window applies to the resolved tentative date.
	now := s.now().UTC()
	until := now.Add(window)
	rows, err := s.store.Select(ctx, ports.From(s.resolver.Table(schema.EntityPackage)))
	if err != nil {
		return nil, err
	}

	var pkgs []domain.Package
	for _, row := range rows {
		p := packageFromRow(s.resolver, row)
		if p.TentativeDate.IsZero() || p.TentativeDate.Before(now) || p.TentativeDate.After(until) {
			continue
		}
		pkgs = append(pkgs, p)
	}
	if len(pkgs) == 0 {
		return []ports.UpcomingPackage{}, nil
	}
	sortByDate(pkgs, func(p domain.Package) time.Time { return p.TentativeDate })

	var projectIDs []any
	seen := map[int64]bool{}
	for _, p := range pkgs {
		if p.ProjectID != 0 && !seen[p.ProjectID] {
			seen[p.ProjectID] = true
			projectIDs = append(projectIDs, p.ProjectID)
		}
	}

	projects := map[int64]domain.Project{}
	if len(projectIDs) > 0 {
		list, err := loadProjects(ctx, s.store, s.resolver, ports.Scope{},
			ports.From(s.resolver.Table(schema.EntityProject)).In("id", projectIDs...))
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			projects[p.ID] = p
		}
	}

	var clientIDs, leadIDs []string
	for _, p := range projects {
		if k, ok := int64Key(p.ClientID); ok {
			clientIDs = append(clientIDs, k)
		}
		if k, ok := int64Key(p.TeamLeadID); ok {
			leadIDs = append(leadIDs, k)
		}
	}
	clientNames := s.names(ctx, schema.EntityClient, clientIDs, func(row schema.Row) string {
		return clientName(s.resolver, row)
	})
	leadNames := s.names(ctx, schema.EntityUser, leadIDs, func(row schema.Row) string {
		return userName(s.resolver, row)
	})

	out := make([]ports.UpcomingPackage, 0, len(pkgs))
	for _, pkg := range pkgs {
		u := ports.UpcomingPackage{Package: pkg, ClientName: "—", TeamLeadName: "—"}
		p, ok := projects[pkg.ProjectID]
		if ok {
			u.ProjectName = p.Name
		} else {
			u.ProjectName = "Project " + strconv.FormatInt(pkg.ProjectID, 10)
		}
		if k, ok := int64Key(p.ClientID); ok {
			u.ClientName = labeler(clientNames, "Client ")(k)
		}
		if k, ok := int64Key(p.TeamLeadID); ok {
			u.TeamLeadName = labeler(leadNames, "User ")(k)
		}
		out = append(out, u)
	}
	return out, nil
}

// names resolves display names for ids of entity e.
func (s *DashboardService) names(ctx context.Context, e schema.Entity, ids []string, name func(schema.Row) string) map[string]string {
	return lookupNames(ctx, s.store, s.resolver, s.log, e, ids, name)
}

func bucketIDs(buckets []aggregate.Bucket) []string {
	ids := make([]string, 0, len(buckets))
	for _, b := range buckets {
		ids = append(ids, b.Key)
	}
	return ids
}

func labeler(names map[string]string, prefix string) func(string) string {
	return func(key string) string {
		if n, ok := names[key]; ok && n != "" {
			return n
		}
		return prefix + key
	}
}

func toBreakdown(buckets []aggregate.Bucket, label func(string) string) *ports.Breakdown {
	total := aggregate.Sum(buckets)
	return &ports.Breakdown{Total: total, Slices: toSlices(buckets, total, label)}
}

func toSlices(buckets []aggregate.Bucket, total int, label func(string) string) []ports.Slice {
	out := make([]ports.Slice, 0, len(buckets))
	for _, b := range buckets {
		sl := ports.Slice{
			Key:        b.Key,
			Label:      b.Key,
			Count:      b.Count,
			Percentage: aggregate.PercentageOfTotal(b.Count, total),
		}
		if label != nil && b.Key != aggregate.OtherKey {
			sl.Label = label(b.Key)
		}
		if len(b.Members) > 0 {
			sl.Members = toSlices(b.Members, total, label)
		}
		out = append(out, sl)
	}
	return out
}

func sortRanks(ranks []ports.ClientRank) {
	slices.SortStableFunc(ranks, func(a, b ports.ClientRank) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
