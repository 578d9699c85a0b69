package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/memory"
	"github.com/steelvault/project-dashboard/internal/pkg/password"
)

func newTeamFixture(t *testing.T) (*memory.Store, *TeamService) {
	t.Helper()
	store := memory.NewStore()
	store.Seed("User",
		schema.Row{"id": int64(1), "name": "Zed", "email": "zed@example.com", "userType": "employee"},
		schema.Row{"id": int64(2), "name": "amy", "email": "amy@example.com", "role": "Employee"},
		schema.Row{"id": int64(3), "name": "Root", "email": "root@example.com", "userType": "admin"},
		schema.Row{"id": int64(4), "name": "Cal", "email": "cal@client.test", "userType": "client", "clientId": int64(7)},
		schema.Row{"id": int64(5), "name": "Dee", "email": "dee@client.test", "user_type": "client", "client_id": int64(8)},
	)
	svc := NewTeamService(store, schema.Default(), zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return store, svc
}

func memberIDs(ms []domain.Member) []int64 {
	out := make([]int64, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestTeamService_Lists(t *testing.T) {
	_, svc := newTeamFixture(t)
	ctx := context.Background()

	leads, err := svc.ListTeamLeads(ctx)
	if err != nil {
		t.Fatalf("leads: %v", err)
	}
	if ids := memberIDs(leads); len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Fatalf("expected employees sorted by name, got %v", ids)
	}

	pms, err := svc.ListClientPMs(ctx, nil)
	if err != nil || len(pms) != 2 {
		t.Fatalf("client pms: %v %v", memberIDs(pms), err)
	}
	pms, err = svc.ListClientPMs(ctx, int64p(8))
	if err != nil || len(pms) != 1 || pms[0].ID != 5 {
		t.Fatalf("aliased client filter: %v %v", memberIDs(pms), err)
	}
}

func TestTeamService_CreateTeamLead(t *testing.T) {
	store, svc := newTeamFixture(t)
	ctx := context.Background()

	m, err := svc.CreateTeamLead(ctx, ports.MemberInput{Name: " Nia ", Email: "nia@example.com", Password: "hunter2", SolTLNo: "TL-9", ClientID: int64p(7)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Name != "Nia" || m.Role != domain.RoleEmployee || m.ClientID != nil || m.SolTLNo != "TL-9" {
		t.Fatalf("unexpected member %+v", m)
	}

	var stored schema.Row
	for _, r := range store.Rows("User") {
		if r["email"] == "nia@example.com" {
			stored = r
		}
	}
	hash, _ := stored["password"].(string)
	if hash == "hunter2" || !password.Verify("hunter2", hash) {
		t.Fatalf("password must be stored as a bcrypt hash, got %q", hash)
	}
}

func TestTeamService_CreateValidation(t *testing.T) {
	_, svc := newTeamFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		field string
		call  func() error
	}{
		{"missing name", "name", func() error {
			_, err := svc.CreateTeamLead(ctx, ports.MemberInput{Email: "a@b.c", Password: "x"})
			return err
		}},
		{"missing email", "email", func() error {
			_, err := svc.CreateTeamLead(ctx, ports.MemberInput{Name: "A", Password: "x"})
			return err
		}},
		{"missing password", "password", func() error {
			_, err := svc.CreateTeamLead(ctx, ports.MemberInput{Name: "A", Email: "a@b.c"})
			return err
		}},
		{"duplicate email any case", "email", func() error {
			_, err := svc.CreateTeamLead(ctx, ports.MemberInput{Name: "A", Email: "ZED@example.com", Password: "x"})
			return err
		}},
		{"client pm without client", "clientId", func() error {
			_, err := svc.CreateClientPM(ctx, ports.MemberInput{Name: "A", Email: "a@b.c", Password: "x"})
			return err
		}},
		{"password too long", "password", func() error {
			_, err := svc.CreateTeamLead(ctx, ports.MemberInput{Name: "A", Email: "long@b.c", Password: strings.Repeat("x", 80)})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *domain.ValidationError
			if err := tt.call(); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestTeamService_CreateClientPM(t *testing.T) {
	_, svc := newTeamFixture(t)
	m, err := svc.CreateClientPM(context.Background(), ports.MemberInput{Name: "Eve", Email: "eve@client.test", Password: "pw", ClientID: int64p(7)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Role != domain.RoleClient || m.ClientID == nil || *m.ClientID != 7 {
		t.Fatalf("unexpected %+v", m)
	}
}

func TestTeamService_DeleteUser(t *testing.T) {
	store, svc := newTeamFixture(t)
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(store.Rows("User")); n != 4 {
		t.Fatalf("expected 4 users left, got %d", n)
	}
	if err := svc.DeleteUser(ctx, 4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	store.Fail("delete", "User", errors.New("down"))
	if err := svc.DeleteUser(ctx, 1); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
