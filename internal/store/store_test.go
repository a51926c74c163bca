package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbtkit.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entries'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "kv_entries" {
		t.Errorf("table name = %q, want 'kv_entries'", name)
	}
}

// kvContract runs the same behavior checks against any KV implementation.
func kvContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, "cbt-config", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := kv.Get(ctx, "cbt-config")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `{"a":1}` {
		t.Errorf("value = %q, want %q", v, `{"a":1}`)
	}

	// Overwrite.
	if err := kv.Set(ctx, "cbt-config", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = kv.Get(ctx, "cbt-config")
	if v != `{"a":2}` {
		t.Errorf("value after overwrite = %q", v)
	}

	if err := kv.Set(ctx, "cbt-app-state", "x"); err != nil {
		t.Fatalf("set second: %v", err)
	}
	if err := kv.Set(ctx, "textSaver_title", "y"); err != nil {
		t.Fatalf("set third: %v", err)
	}

	keys, err := kv.Keys(ctx, "cbt-")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "cbt-app-state" || keys[1] != "cbt-config" {
		t.Errorf("keys = %v, want [cbt-app-state cbt-config]", keys)
	}

	if err := kv.Remove(ctx, "cbt-config"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "cbt-config"); ok {
		t.Error("expected key to be gone after remove")
	}

	// Removing again is a no-op.
	if err := kv.Remove(ctx, "cbt-config"); err != nil {
		t.Errorf("second remove: %v", err)
	}

	// Empty values are still present.
	if err := kv.Set(ctx, "empty", ""); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if v, ok, _ := kv.Get(ctx, "empty"); !ok || v != "" {
		t.Errorf("empty value: ok=%v v=%q", ok, v)
	}
}

func TestSQLiteKV(t *testing.T) {
	kvContract(t, openTestStore(t).KV())
}

func TestMemKV(t *testing.T) {
	kvContract(t, NewMemKV())
}

func TestSQLiteKVSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbtkit.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.KV().Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}
