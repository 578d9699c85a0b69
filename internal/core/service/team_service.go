package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
	"github.com/steelvault/project-dashboard/internal/pkg/password"
)

// TeamService manages the User rows behind team leads and client PMs.
type TeamService struct {
	store    ports.TableStore
	resolver *schema.Resolver
	log      zerolog.Logger
	now      func() time.Time
}

// NewTeamService returns a team service over the user table.
func NewTeamService(store ports.TableStore, resolver *schema.Resolver, log zerolog.Logger) *TeamService {
	return &TeamService{store: store, resolver: resolver, log: log, now: time.Now}
}

// ListTeamLeads returns employees sorted by name.
func (s *TeamService) ListTeamLeads(ctx context.Context) ([]domain.Member, error) {
	return s.members(ctx, domain.RoleEmployee, nil)
}

// ListClientPMs returns client PMs sorted by name, optionally of one client.
func (s *TeamService) ListClientPMs(ctx context.Context, clientID *int64) ([]domain.Member, error) {
	return s.members(ctx, domain.RoleClient, clientID)
}

// members filters users by role after resolution, so rows keeping the role
// under a historical column are still listed.
func (s *TeamService) members(ctx context.Context, role string, clientID *int64) ([]domain.Member, error) {
	rows, err := s.store.Select(ctx, ports.From(s.resolver.Table(schema.EntityUser)))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		m := memberFromRow(s.resolver, row)
		if m.Role != role {
			continue
		}
		if clientID != nil && (m.ClientID == nil || *m.ClientID != *clientID) {
			continue
		}
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b domain.Member) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

// CreateTeamLead stores an employee user. Any client id is dropped.
func (s *TeamService) CreateTeamLead(ctx context.Context, in ports.MemberInput) (*domain.Member, error) {
	in.ClientID = nil
	return s.create(ctx, domain.RoleEmployee, in)
}

// CreateClientPM stores a client user. The client id is required.
func (s *TeamService) CreateClientPM(ctx context.Context, in ports.MemberInput) (*domain.Member, error) {
	if in.ClientID == nil {
		return nil, domain.Required("clientId")
	}
	return s.create(ctx, domain.RoleClient, in)
}

// validateMember checks the fields every new user needs.
func validateMember(in ports.MemberInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.Required("name")
	case strings.TrimSpace(in.Email) == "":
		return domain.Required("email")
	case in.Password == "":
		return domain.Required("password")
	}
	return nil
}

func (s *TeamService) create(ctx context.Context, role string, in ports.MemberInput) (*domain.Member, error) {
	if err := validateMember(in); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	table := s.resolver.Table(schema.EntityUser)

	existing, err := s.store.Select(ctx, ports.From(table).IEq("email", email).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &domain.ValidationError{Field: "email", Message: "is already registered"}
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, &domain.ValidationError{Field: "password", Message: err.Error()}
	}

	row := schema.Row{
		"name":      strings.TrimSpace(in.Name),
		"email":     email,
		"password":  hash,
		"userType":  role,
		"contactNo": nullable(in.ContactNo),
		"solTlNo":   nullable(in.SolTLNo),
		"clientId":  nullableID(in.ClientID),
		"createdAt": s.now().UTC(),
	}
	stored, err := s.store.Insert(ctx, table, row)
	if err != nil {
		return nil, err
	}
	m := memberFromRow(s.resolver, stored)
	s.log.Info().Int64("user_id", m.ID).Str("role", role).Msg("user created")
	return &m, nil
}

// DeleteUser removes one user row of any role.
func (s *TeamService) DeleteUser(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, ports.From(s.resolver.Table(schema.EntityUser)).Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
