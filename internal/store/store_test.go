package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatalf("expected error for unsupported db type")
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s := newTestStore(t)
	if err := RunMigrations(s.bun.DB, "sqlite"); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
	var n int
	if err := s.bun.DB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one recorded migration, got %d", n)
	}
}

func TestAuthStates_SaveLoadClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := s.AuthStates("project-a")

	if _, err := a.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	exp := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	want := AuthState{UID: "U1", Email: "a@b.co", ProviderID: "password", IDToken: "id", RefreshToken: "rt", ExpiresAt: exp}
	if err := a.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Saving again replaces the row.
	want.IDToken = "id2"
	if err := a.Save(ctx, want); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UID != "U1" || got.IDToken != "id2" || got.RefreshToken != "rt" || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected state %+v", got)
	}

	if _, err := s.AuthStates("project-b").Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("keys must be isolated, got %v", err)
	}

	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := a.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if _, err := a.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestAuditLog_ListAndExport(t *testing.T) {
	s := newTestStore(t)
	s.now = steppingClock()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.LogAction(ctx, "LOGIN", fmt.Sprintf("n=%d", i)); err != nil {
			t.Fatalf("LogAction: %v", err)
		}
	}

	all, err := s.ListAuditLog(ctx, 0)
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(all) != 3 || all[0].Details != "n=2" || all[2].Details != "n=0" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatalf("entries need distinct ids: %+v", all)
	}

	limited, err := s.ListAuditLog(ctx, 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit not applied: %v %d", err, len(limited))
	}

	var buf bytes.Buffer
	n, err := s.ExportAuditLog(ctx, &buf)
	if err != nil || n != 3 {
		t.Fatalf("ExportAuditLog = %d, %v", n, err)
	}
	back, err := ReadAuditExport(&buf)
	if err != nil {
		t.Fatalf("ReadAuditExport: %v", err)
	}
	if len(back) != 3 || back[0].Details != "n=0" || back[2].Action != "LOGIN" {
		t.Fatalf("unexpected export contents %+v", back)
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Fatalf("nil must map to nil")
	}
	if !errors.Is(MapDBError(sql.ErrNoRows), ErrNotFound) {
		t.Fatalf("no rows must map to ErrNotFound")
	}
	if !errors.Is(MapDBError(errors.New("UNIQUE constraint failed: audit_log.id")), ErrDuplicate) {
		t.Fatalf("unique violation must map to ErrDuplicate")
	}
	other := errors.New("disk full")
	if MapDBError(other) != other {
		t.Fatalf("unrelated errors must pass through")
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\n CREATE INDEX i ON a (x);\n")
	if len(got) != 2 || got[1] != "CREATE INDEX i ON a (x)" {
		t.Fatalf("unexpected split %q", got)
	}
}
