package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

func seeded() *Store {
	s := NewStore()
	s.Seed("User",
		schema.Row{"id": int64(1), "email": "Ana@Example.com", "userType": "admin"},
		schema.Row{"id": int64(2), "email": "bo@example.com", "userType": "employee"},
		schema.Row{"id": int64(3), "email": "cy@example.com", "userType": "client", "clientId": int64(9)},
	)
	return s
}

func TestStore_SelectFilters(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	rows, err := s.Select(ctx, ports.From("User").IEq("email", "ana@example.COM"))
	if err != nil || len(rows) != 1 || rows[0]["id"] != int64(1) {
		t.Fatalf("ieq: %v %+v", err, rows)
	}

	rows, _ = s.Select(ctx, ports.From("User").In("userType", "admin", "client").Order("id", false))
	if len(rows) != 2 || rows[0]["id"] != int64(3) {
		t.Fatalf("in+order: %+v", rows)
	}

	rows, _ = s.Select(ctx, ports.From("User").Gte("id", 2).Lte("id", "2").Select("email"))
	if len(rows) != 1 || rows[0]["email"] != "bo@example.com" || rows[0]["id"] != nil {
		t.Fatalf("range+projection: %+v", rows)
	}

	rows, _ = s.Select(ctx, ports.From("User").Limit(2))
	if len(rows) != 2 {
		t.Fatalf("limit: %d rows", len(rows))
	}

	rows, err = s.Select(ctx, ports.From("Missing"))
	if err != nil || len(rows) != 0 {
		t.Fatalf("empty table must not fail: %v %+v", err, rows)
	}
}

func TestStore_InsertUpdateDelete(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	row, err := s.Insert(ctx, "User", schema.Row{"email": "new@example.com"})
	if err != nil || row["id"] != int64(4) {
		t.Fatalf("insert: %v %+v", err, row)
	}
	row["email"] = "mutated"
	if got := s.Rows("User")[3]["email"]; got != "new@example.com" {
		t.Fatalf("stored row aliased by caller: %v", got)
	}

	updated, err := s.Update(ctx, "User", 4, schema.Row{"name": "Nu", "id": int64(99)})
	if err != nil || updated["name"] != "Nu" || updated["id"] != int64(4) {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if _, err := s.Update(ctx, "User", 42, schema.Row{"name": "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := s.Delete(ctx, ports.From("User").Eq("userType", "employee"))
	if err != nil || n != 1 {
		t.Fatalf("delete: %v %d", err, n)
	}
	if _, err := s.Delete(ctx, ports.From("User")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unfiltered delete must be refused, got %v", err)
	}
}

func TestStore_Fail(t *testing.T) {
	s := seeded()
	s.Fail("select", "User", errors.New("connection reset"))
	if _, err := s.Select(context.Background(), ports.From("User")); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
	s.Fail("select", "User", nil)
	if _, err := s.Select(context.Background(), ports.From("User")); err != nil {
		t.Fatalf("fault not cleared: %v", err)
	}
}

func TestSessionStore_TTL(t *testing.T) {
	s := NewSessionStore()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := context.Background()

	_ = s.Put(ctx, "p1", []byte(`{"userId":1}`), time.Minute)
	_ = s.Put(ctx, "p2", []byte(`{"userId":2}`), 0)

	clock = clock.Add(2 * time.Minute)
	if blob, _ := s.Get(ctx, "p1"); blob != nil {
		t.Fatalf("expired session returned")
	}
	if blob, _ := s.Get(ctx, "p2"); string(blob) != `{"userId":2}` {
		t.Fatalf("non-expiring session lost: %s", blob)
	}
	_ = s.Delete(ctx, "p2")
	_ = s.Delete(ctx, "p2")
	if s.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", s.Len())
	}
}

func TestListCache_InvalidateTable(t *testing.T) {
	c := NewListCache()
	ctx := context.Background()
	_ = c.Set(ctx, "Project", "k1", []schema.Row{{"id": 1}}, 0)
	_ = c.Set(ctx, "Client", "k2", []schema.Row{{"id": 2}}, 0)

	_ = c.InvalidateTable(ctx, "Project")
	if _, ok, _ := c.Get(ctx, "k1"); ok {
		t.Fatalf("project entry survived invalidation")
	}
	if rows, ok, _ := c.Get(ctx, "k2"); !ok || len(rows) != 1 {
		t.Fatalf("client entry lost")
	}
	if v, _ := c.Version(ctx, "Project"); v != 1 {
		t.Fatalf("project version = %d, want 1", v)
	}
	if v, _ := c.Version(ctx, "Client"); v != 0 {
		t.Fatalf("client version = %d, want 0", v)
	}
}
