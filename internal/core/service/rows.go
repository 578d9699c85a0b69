package service

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// Typed views over resolved rows. Every read goes through the resolver so
// historical column names keep working.

func projectFromRow(r *schema.Resolver, row schema.Row) domain.Project {
	const e = schema.EntityProject
	id, _ := r.Int64(e, row, "id")
	raw := r.String(e, row, "status")
	p := domain.Project{
		ID:           id,
		ProjectNo:    r.String(e, row, "projectNo"),
		SolProjectNo: r.String(e, row, "solProjectNo"),
		Name:         r.Text(e, row, "name"),
		Description:  r.String(e, row, "description"),
		ClientID:     r.Int64Ptr(e, row, "clientId"),
		TeamLeadID:   r.Int64Ptr(e, row, "solTLId"),
		ClientPMID:   r.Int64Ptr(e, row, "clientPm"),
		Status:       domain.NormalizeStatus(raw),
		RawStatus:    raw,
		Priority:     r.String(e, row, "priority"),
		Progress:     r.Float(e, row, "progress"),
		Branch:       r.String(e, row, "branch"),
	}
	if p.Name == "" {
		p.Name = "Project " + strconv.FormatInt(id, 10)
	}
	p.StartDate, _ = r.Time(e, row, "startDate")
	p.EndDate, _ = r.Time(e, row, "endDate")
	p.CreatedAt, _ = r.Time(e, row, "createdAt")
	return p
}

// clientName resolves a display name, falling back to "Client <id>".
func clientName(r *schema.Resolver, row schema.Row) string {
	if n := r.Text(schema.EntityClient, row, "name"); n != "" {
		return n
	}
	id, _ := r.Int64(schema.EntityClient, row, "id")
	return "Client " + strconv.FormatInt(id, 10)
}

func clientFromRow(r *schema.Resolver, row schema.Row) domain.Client {
	const e = schema.EntityClient
	id, _ := r.Int64(e, row, "id")
	c := domain.Client{
		ID:             id,
		Name:           clientName(r, row),
		CompanyName:    r.String(e, row, "companyName"),
		Email:          r.String(e, row, "email"),
		ContactNo:      r.Text(e, row, "contactNo"),
		Address:        r.String(e, row, "address"),
		Notes:          r.String(e, row, "notes"),
		TotalProjects:  int(r.Float(e, row, "totalProjects")),
		ActiveProjects: int(r.Float(e, row, "activeProjects")),
	}
	c.CreatedAt, _ = r.Time(e, row, "createdAt")
	c.LastActivityDate, _ = r.Time(e, row, "lastActivityDate")
	return c
}

// userName resolves a display name: the name columns, then first and last
// name, then email, then "User <id>".
func userName(r *schema.Resolver, row schema.Row) string {
	const e = schema.EntityUser
	if n := r.Text(e, row, "name"); n != "" {
		return n
	}
	first := strings.TrimSpace(schema.ToString(schema.ResolveField(row, "first_name", "firstName")))
	last := strings.TrimSpace(schema.ToString(schema.ResolveField(row, "last_name", "lastName")))
	if full := strings.TrimSpace(first + " " + last); full != "" {
		return full
	}
	if email := r.Text(e, row, "email"); email != "" {
		return email
	}
	id, _ := r.Int64(e, row, "id")
	return "User " + strconv.FormatInt(id, 10)
}

func memberFromRow(r *schema.Resolver, row schema.Row) domain.Member {
	const e = schema.EntityUser
	id, _ := r.Int64(e, row, "id")
	role, _ := domain.NormalizeRole(r.String(e, row, "userType"))
	return domain.Member{
		ID:        id,
		Name:      userName(r, row),
		Email:     r.String(e, row, "email"),
		ContactNo: r.Text(e, row, "contactNo"),
		Role:      role,
		ClientID:  r.Int64Ptr(e, row, "clientId"),
		SolTLNo:   r.Text(e, row, "solTlNo"),
	}
}

func credentialFromRow(r *schema.Resolver, row schema.Row) (*domain.Credential, bool) {
	const e = schema.EntityUser
	id, ok := r.Int64(e, row, "id")
	if !ok || id == 0 {
		return nil, false
	}
	return &domain.Credential{
		ID:           id,
		Name:         userName(r, row),
		Email:        r.String(e, row, "email"),
		PasswordHash: r.String(e, row, "password"),
		Role:         r.String(e, row, "userType"),
		ClientID:     r.Int64Ptr(e, row, "clientId"),
	}, true
}

func packageFromRow(r *schema.Resolver, row schema.Row) domain.Package {
	const e = schema.EntityPackage
	id, _ := r.Int64(e, row, "id")
	pid, _ := r.Int64(e, row, "projectid")
	p := domain.Package{
		ID:            id,
		ProjectID:     pid,
		Name:          r.String(e, row, "name"),
		PackageNumber: r.String(e, row, "packagenumber"),
		Status:        r.String(e, row, "status"),
	}
	p.TentativeDate, _ = r.Time(e, row, "tentativedate")
	p.IssueDate, _ = r.Time(e, row, "issuedate")
	p.CreatedAt, _ = r.Time(e, row, "createdat")
	return p
}

func rfiFromRow(r *schema.Resolver, row schema.Row) domain.RFI {
	const e = schema.EntityRFI
	id, _ := r.Int64(e, row, "id")
	pid, _ := r.Int64(e, row, "projectId")
	rfi := domain.RFI{
		ID:        id,
		ProjectID: pid,
		RFINumber: r.String(e, row, "rfiNumber"),
		Status:    r.String(e, row, "status"),
		Remark:    r.String(e, row, "remark"),
	}
	rfi.Date, _ = r.Time(e, row, "date")
	return rfi
}

// projectKey is the field of a package or RFI row naming its project.
func projectKey(e schema.Entity) string {
	if e == schema.EntityPackage {
		return "projectid"
	}
	return "projectId"
}

// projectChildren returns the package or RFI rows belonging to one of ids.
// The foreign key is matched after the fetch, under any of its aliases.
func projectChildren(ctx context.Context, store ports.TableStore, r *schema.Resolver, e schema.Entity, ids ...int64) ([]schema.Row, error) {
	rows, err := store.Select(ctx, ports.From(r.Table(e)))
	if err != nil {
		return nil, err
	}
	key := projectKey(e)
	out := make([]schema.Row, 0, len(rows))
	for _, row := range rows {
		if pid, ok := r.Int64(e, row, key); ok && slices.Contains(ids, pid) {
			out = append(out, row)
		}
	}
	return out, nil
}

// sortByDate orders items by date ascending, undated items last.
func sortByDate[T any](items []T, date func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, tb := date(a), date(b)
		switch {
		case ta.IsZero() && tb.IsZero():
			return 0
		case ta.IsZero():
			return 1
		case tb.IsZero():
			return -1
		}
		return ta.Compare(tb)
	})
}

// firstDate returns the first non-zero time.
func firstDate(ts ...time.Time) time.Time {
	for _, t := range ts {
		if !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func int64Key(id *int64) (string, bool) {
	if id == nil {
		return "", false
	}
	return strconv.FormatInt(*id, 10), true
}
