package domain

import (
	"errors"
	"testing"
)

func TestNormalizeRole(t *testing.T) {
	if role, ok := NormalizeRole(" Employee "); !ok || role != RoleEmployee {
		t.Fatalf("got %q/%v", role, ok)
	}
	if role, ok := NormalizeRole("ADMIN"); !ok || role != RoleAdmin {
		t.Fatalf("got %q/%v", role, ok)
	}
	if _, ok := NormalizeRole("guest"); ok {
		t.Fatalf("guest must not be accepted")
	}
}

func TestNewSession_CopiesClientID(t *testing.T) {
	cid := int64(7)
	s := NewSession(&Credential{ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: "x", ClientID: &cid}, RoleClient)
	cid = 9
	if s.ClientID == nil || *s.ClientID != 7 {
		t.Fatalf("client id not copied: %v", s.ClientID)
	}
	if !s.Valid() {
		t.Fatalf("expected valid session")
	}
}

func TestSession_Valid(t *testing.T) {
	var nilSession *Session
	if nilSession.Valid() {
		t.Fatalf("nil session is not valid")
	}
	if (&Session{UserID: 0, Role: RoleAdmin}).Valid() {
		t.Fatalf("zero user id is not valid")
	}
	if (&Session{UserID: 1, Role: "Admin"}).Valid() {
		t.Fatalf("stored roles are lower-case")
	}
}

func TestSession_HasRole(t *testing.T) {
	s := &Session{UserID: 1, Role: RoleAdmin}
	if !s.HasRole("Admin") {
		t.Fatalf("expected case-insensitive match")
	}
	if s.HasRole("client") {
		t.Fatalf("unexpected match")
	}
}

func TestValidationError_Is(t *testing.T) {
	err := Required("name")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation match")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected field name, got %+v", ve)
	}
	if err.Error() != "name: is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable("select Project", cause)
	if !errors.Is(err, ErrBackendUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause, got %v", err)
	}
	if Unavailable("noop", nil) != nil {
		t.Fatalf("nil cause must stay nil")
	}
}

func TestPartialWriteError(t *testing.T) {
	cause := errors.New("insert failed")
	err := error(&PartialWriteError{Completed: "client", Failed: "client_pm", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to cause")
	}
}
