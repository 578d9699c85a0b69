package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/memory"
)

func newClientFixture(t *testing.T) (*memory.Store, *ClientService) {
	t.Helper()
	store := memory.NewStore()
	seedDashboardData(store)
	team := NewTeamService(store, schema.Default(), zerolog.Nop())
	team.now = func() time.Time { return fixedNow }
	svc := NewClientService(store, schema.Default(), team, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return store, svc
}

func TestClientService_List_DerivesCounters(t *testing.T) {
	store, svc := newClientFixture(t)
	store.Seed("Client", schema.Row{"id": int64(3), "name": "Fresh Co", "createdAt": fixedNow})

	got, err := svc.List(context.Background(), ports.Scope{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != 3 {
		t.Fatalf("expected newest first, got %+v", got)
	}
	byID := map[int64]domain.Client{}
	for _, c := range got {
		byID[c.ID] = c
	}
	if c := byID[1]; c.TotalProjects != 2 || c.ActiveProjects != 2 || c.Status != domain.ClientActive {
		t.Errorf("acme: %+v", c)
	}
	// Borealis has one closed project and one near-completion project, the
	// newest of which is undated; its last activity is the closed one.
	if c := byID[2]; c.TotalProjects != 2 || c.ActiveProjects != 0 || c.Status != domain.ClientInactive {
		t.Errorf("borealis: %+v", c)
	}
	if c := byID[3]; c.TotalProjects != 0 || c.Status != domain.ClientProspect {
		t.Errorf("fresh: %+v", c)
	}
}

func TestClientService_Get_Scoped(t *testing.T) {
	_, svc := newClientFixture(t)
	ctx := context.Background()

	c, err := svc.Get(ctx, ports.Scope{Restricted: true, ClientID: 2}, 2)
	if err != nil || c.Name != "Borealis" {
		t.Fatalf("own client: %+v %v", c, err)
	}
	if _, err := svc.Get(ctx, ports.Scope{Restricted: true, ClientID: 2}, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign client should be hidden, got %v", err)
	}
	if _, err := svc.Get(ctx, ports.Scope{}, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientService_Create(t *testing.T) {
	store, svc := newClientFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.ClientInput{Name: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, err := svc.Create(ctx, ports.ClientInput{Name: "Gamma Fab", Email: "ops@gamma.test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.CompanyName != "Gamma Fab" || c.TotalProjects != 0 || c.Status != domain.ClientProspect {
		t.Errorf("unexpected client %+v", c)
	}
	if !c.LastActivityDate.Equal(fixedNow) {
		t.Errorf("lastActivityDate = %v", c.LastActivityDate)
	}
	if n := len(store.Rows("Client")); n != 3 {
		t.Fatalf("expected 3 clients, got %d", n)
	}
}

func TestClientService_Create_WithPM(t *testing.T) {
	store, svc := newClientFixture(t)
	ctx := context.Background()

	pm := &ports.MemberInput{Name: "Pia", Email: "pia@gamma.test", Password: "pw"}
	c, err := svc.Create(ctx, ports.ClientInput{Name: "Gamma", PM: pm})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var found bool
	for _, r := range store.Rows("User") {
		if r["email"] == "pia@gamma.test" {
			found = true
			if id, _ := schema.ToInt64(r["clientId"]); id != c.ID || r["userType"] != domain.RoleClient {
				t.Errorf("pm row not linked: %v", r)
			}
		}
	}
	if !found {
		t.Fatal("pm not created")
	}
}

func TestClientService_Create_PMValidatedFirst(t *testing.T) {
	store, svc := newClientFixture(t)
	_, err := svc.Create(context.Background(), ports.ClientInput{Name: "Gamma", PM: &ports.MemberInput{Name: "Pia"}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := len(store.Rows("Client")); n != 2 {
		t.Fatalf("client written despite invalid pm: %d rows", n)
	}
}

func TestClientService_Create_PMFailureIsPartial(t *testing.T) {
	store, svc := newClientFixture(t)
	store.Fail("insert", "User", errors.New("timeout"))

	c, err := svc.Create(context.Background(), ports.ClientInput{
		Name: "Gamma",
		PM:   &ports.MemberInput{Name: "Pia", Email: "pia@gamma.test", Password: "pw"},
	})
	var pw *domain.PartialWriteError
	if !errors.As(err, &pw) || pw.Completed != "client" || pw.Failed != "client pm" {
		t.Fatalf("expected partial write, got %v", err)
	}
	if c == nil || c.ID == 0 {
		t.Fatal("the persisted client should still be returned")
	}
}

func TestClientService_UpdateAndDelete(t *testing.T) {
	store, svc := newClientFixture(t)
	ctx := context.Background()

	c, err := svc.Update(ctx, 1, ports.ClientInput{Notes: "priority account"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Notes != "priority account" || c.Name != "Acme Steel" {
		t.Errorf("unexpected %+v", c)
	}
	for _, r := range store.Rows("Client") {
		if id, _ := schema.ToInt64(r["id"]); id == 1 && r["updatedAt"] == nil {
			t.Error("updatedAt not stamped")
		}
	}

	if _, err := svc.Update(ctx, 42, ports.ClientInput{Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
