package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/aggregate"
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// ClientService manages clients and derives their project counters.
type ClientService struct {
	store    ports.TableStore
	resolver *schema.Resolver
	team     *TeamService
	log      zerolog.Logger
	now      func() time.Time
}

// NewClientService returns a client service; team creates the first client PM.
func NewClientService(store ports.TableStore, resolver *schema.Resolver, team *TeamService, log zerolog.Logger) *ClientService {
	return &ClientService{store: store, resolver: resolver, team: team, log: log, now: time.Now}
}

// List returns the visible clients, newest first. Project counters and the
// derived status are computed from the project table, not the stored
// counters.
func (s *ClientService) List(ctx context.Context, scope ports.Scope) ([]domain.Client, error) {
	q := ports.From(s.resolver.Table(schema.EntityClient)).Order("createdAt", false)
	if scope.Restricted {
		if scope.ClientID == 0 {
			return []domain.Client{}, nil
		}
		q = q.Eq("id", scope.ClientID)
	}
	rows, err := s.store.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	projects, err := loadProjects(ctx, s.store, s.resolver, scope, ports.From(s.resolver.Table(schema.EntityProject)))
	if err != nil {
		return nil, err
	}

	type counters struct {
		total, active int
		latest        time.Time
	}
	byClient := map[int64]*counters{}
	for _, p := range projects {
		if p.ClientID == nil {
			continue
		}
		c := byClient[*p.ClientID]
		if c == nil {
			c = &counters{}
			byClient[*p.ClientID] = c
		}
		c.total++
		if domain.IsActiveStatus(p.RawStatus) {
			c.active++
		}
		if p.CreatedAt.After(c.latest) {
			c.latest = p.CreatedAt
		}
	}

	now := s.now()
	out := make([]domain.Client, 0, len(rows))
	for _, row := range rows {
		c := clientFromRow(s.resolver, row)
		c.TotalProjects, c.ActiveProjects = 0, 0
		if n := byClient[c.ID]; n != nil {
			c.TotalProjects, c.ActiveProjects = n.total, n.active
			if n.latest.After(c.LastActivityDate) {
				c.LastActivityDate = n.latest
			}
		}
		c.Status = aggregate.DeriveClientStatus(c.TotalProjects, c.ActiveProjects, c.LastActivityDate, now)
		out = append(out, c)
	}
	return out, nil
}

// Get returns one client with its derived counters.
func (s *ClientService) Get(ctx context.Context, scope ports.Scope, id int64) (*domain.Client, error) {
	if scope.Restricted && scope.ClientID != id {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	list, err := s.List(ctx, ports.Scope{Restricted: true, ClientID: id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	return &list[0], nil
}

// Create stores a client and, when given, its first client PM. A PM failure
// after the client row was written returns a *domain.PartialWriteError.
func (s *ClientService) Create(ctx context.Context, in ports.ClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Required("name")
	}
	if in.PM != nil {
		if err := validateMember(*in.PM); err != nil {
			return nil, err
		}
	}
	company := strings.TrimSpace(in.CompanyName)
	if company == "" {
		company = name
	}

	now := s.now().UTC()
	row := schema.Row{
		"name":             name,
		"companyName":      company,
		"email":            nullable(in.Email),
		"contactNo":        nullable(in.ContactNo),
		"address":          nullable(in.Address),
		"notes":            nullable(in.Notes),
		"totalProjects":    int64(0),
		"activeProjects":   int64(0),
		"lastActivityDate": now,
		"createdAt":        now,
	}
	stored, err := s.store.Insert(ctx, s.resolver.Table(schema.EntityClient), row)
	if err != nil {
		return nil, err
	}
	c := clientFromRow(s.resolver, stored)
	c.Status = aggregate.DeriveClientStatus(0, 0, c.LastActivityDate, now)
	s.log.Info().Int64("client_id", c.ID).Msg("client created")

	if in.PM != nil {
		pm := *in.PM
		pm.ClientID = &c.ID
		if _, err := s.team.CreateClientPM(ctx, pm); err != nil {
			s.log.Error().Err(err).Int64("client_id", c.ID).Msg("client pm create failed")
			return &c, &domain.PartialWriteError{Completed: "client", Failed: "client pm", Err: err}
		}
	}
	return &c, nil
}

// Update patches a client and stamps updatedAt.
func (s *ClientService) Update(ctx context.Context, id int64, in ports.ClientInput) (*domain.Client, error) {
	patch := schema.Row{"updatedAt": s.now().UTC()}
	for col, v := range map[string]string{
		"name":        in.Name,
		"companyName": in.CompanyName,
		"email":       in.Email,
		"contactNo":   in.ContactNo,
		"address":     in.Address,
		"notes":       in.Notes,
	} {
		if v = strings.TrimSpace(v); v != "" {
			patch[col] = v
		}
	}
	if _, err := s.store.Update(ctx, s.resolver.Table(schema.EntityClient), id, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, ports.Scope{}, id)
}

// Delete removes one client row. Its projects are left in place.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, ports.From(s.resolver.Table(schema.EntityClient)).Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	s.log.Info().Int64("client_id", id).Msg("client deleted")
	return nil
}
