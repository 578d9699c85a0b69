package schema

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveField_Order(t *testing.T) {
	cases := []struct {
		name string
		row  Row
		want any
	}{
		{"canonical wins", Row{"clientId": int64(1), "client_id": int64(2)}, int64(1)},
		{"nil canonical falls through", Row{"clientId": nil, "client_id": int64(2)}, int64(2)},
		{"first alias in order", Row{"ClientID": int64(4), "clientID": int64(3)}, int64(3)},
		{"empty string is present", Row{"clientId": "", "client_id": int64(2)}, ""},
		{"none", Row{"other": 1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveField(tc.row, "clientId", "client_id", "clientID", "ClientId", "ClientID")
			if got != tc.want {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
	if ResolveField(nil, "x") != nil {
		t.Fatalf("nil row must resolve to nil")
	}
}

func TestResolver_Default(t *testing.T) {
	r := Default()

	row := Row{"sol_tl_id": "12", "project_status": "IN_PROGRESS", "percentCompleted": "42.5"}
	if id, ok := r.Int64(EntityProject, row, "solTLId"); !ok || id != 12 {
		t.Fatalf("solTLId = %d/%v", id, ok)
	}
	if got := r.String(EntityProject, row, "status"); got != "IN_PROGRESS" {
		t.Fatalf("status = %q", got)
	}
	if got := r.Float(EntityProject, row, "progress"); got != 42.5 {
		t.Fatalf("progress = %v", got)
	}
	if got := r.Text(EntityClient, Row{"name": " ", "companyName": "Acme"}, "name"); got != "Acme" {
		t.Fatalf("Text = %q", got)
	}
	if r.Int64Ptr(EntityProject, row, "clientId") != nil {
		t.Fatalf("absent clientId must be nil")
	}

	if got := r.Tables(EntityUser); len(got) != 6 || got[0] != "User" {
		t.Fatalf("user tables = %v", got)
	}
	if r.Table(EntityPackage) != "ProjectPackage" {
		t.Fatalf("package table = %q", r.Table(EntityPackage))
	}
	if r.Table(Entity("unknown")) != "unknown" {
		t.Fatalf("undeclared entity falls back to its name")
	}
}

func TestResolver_Column(t *testing.T) {
	r := Default()

	col, ok := r.Column(EntityPackage, Row{"projectid": nil, "project_id": int64(7)}, "projectid")
	if !ok || col != "project_id" {
		t.Fatalf("column = %q/%v, want project_id", col, ok)
	}
	if col, ok := r.Column(EntityPackage, Row{"projectid": int64(7), "projectId": int64(8)}, "projectid"); !ok || col != "projectid" {
		t.Fatalf("canonical column should win, got %q", col)
	}
	if _, ok := r.Column(EntityPackage, Row{"name": "x"}, "projectid"); ok {
		t.Fatal("absent field must not resolve")
	}
}

func TestResolver_Time(t *testing.T) {
	r := Default()
	row := Row{"tentativeDate": "2024-03-05", "issuedate": time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)}

	got, ok := r.Time(EntityPackage, row, "tentativedate")
	if !ok || !got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("tentativedate = %v/%v", got, ok)
	}
	if _, ok := r.Time(EntityPackage, row, "createdat"); ok {
		t.Fatalf("absent createdat must not resolve")
	}
}

func TestLoadAliases_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	data := []byte("tables:\n  project: [Projects]\nfields:\n  project:\n    status: [stage]\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if r.Table(EntityProject) != "Projects" {
		t.Fatalf("table = %q", r.Table(EntityProject))
	}
	if got := r.String(EntityProject, Row{"stage": "Live"}, "status"); got != "Live" {
		t.Fatalf("status = %q", got)
	}
}

func TestLoadAliases_Errors(t *testing.T) {
	if _, err := LoadAliases(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := ParseAliases([]byte("tables: {}\n")); err == nil {
		t.Fatalf("expected error for empty field table")
	}
	if _, err := LoadAliases(""); err != nil {
		t.Fatalf("embedded table must load: %v", err)
	}
}

func TestCoercions(t *testing.T) {
	if v, ok := ToFloat("  3.25 "); !ok || v != 3.25 {
		t.Fatalf("ToFloat string = %v/%v", v, ok)
	}
	if _, ok := ToFloat("n/a"); ok {
		t.Fatalf("non-numeric text must be absent")
	}
	if _, ok := ToFloat(""); ok {
		t.Fatalf("empty text must be absent")
	}
	if v, ok := ToInt64(float64(7.9)); !ok || v != 7 {
		t.Fatalf("ToInt64 float = %v/%v", v, ok)
	}
	if v, ok := ToInt64(int32(5)); !ok || v != 5 {
		t.Fatalf("ToInt64 int32 = %v/%v", v, ok)
	}
	if ToString(nil) != "" || ToString(int64(12)) != "12" || ToString(2.5) != "2.5" {
		t.Fatalf("ToString mismatch")
	}
	if ts, ok := ToTime("2024-01-02T03:04:05Z"); !ok || ts.Hour() != 3 {
		t.Fatalf("ToTime RFC3339 = %v/%v", ts, ok)
	}
	if _, ok := ToTime(time.Time{}); ok {
		t.Fatalf("zero time must be absent")
	}
}
