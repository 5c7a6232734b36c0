package storage

import (
	"path/filepath"
	"testing"
)

// ============================================================
// SQLite backend
// ============================================================

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "momentum.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteLoadMissing(t *testing.T) {
	s := newTestSQLite(t)

	data, ok, err := s.Load("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ok=false for missing key")
	}
	if data != nil {
		t.Fatalf("expected nil data, got %q", data)
	}
}

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	s := newTestSQLite(t)

	if err := s.Save("task-store", []byte(`{"tasks":[]}`)); err != nil {
		t.Fatal(err)
	}
	data, ok, err := s.Load("task-store")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if string(data) != `{"tasks":[]}` {
		t.Fatalf("got %q", data)
	}
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	s := newTestSQLite(t)

	s.Save("k", []byte("one"))
	s.Save("k", []byte("two"))

	data, ok, _ := s.Load("k")
	if !ok || string(data) != "two" {
		t.Fatalf("expected latest value, got %q ok=%v", data, ok)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "momentum.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Save("habit-store", []byte(`{"habits":[]}`))
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	data, ok, err := s2.Load("habit-store")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(data) != `{"habits":[]}` {
		t.Fatalf("snapshot lost across reopen: %q ok=%v", data, ok)
	}
}

func TestSQLiteSecondInstanceRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "momentum.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := OpenSQLite(path); err == nil {
		t.Fatal("expected second open on the same path to fail")
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// Memory backend
// ============================================================

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	if _, ok, _ := m.Load("k"); ok {
		t.Fatal("expected miss on fresh backend")
	}

	m.Save("k", []byte("v"))
	data, ok, err := m.Load("k")
	if err != nil || !ok || string(data) != "v" {
		t.Fatalf("got %q ok=%v err=%v", data, ok, err)
	}
}

func TestMemoryFailSaves(t *testing.T) {
	m := NewMemory()
	m.FailSaves(true)

	if err := m.Save("k", []byte("v")); err == nil {
		t.Fatal("expected save error")
	}
	if _, ok, _ := m.Load("k"); ok {
		t.Fatal("failed save must not store anything")
	}

	m.FailSaves(false)
	if err := m.Save("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
}

func TestMemorySeedBypassesFailures(t *testing.T) {
	m := NewMemory()
	m.FailSaves(true)
	m.Seed("k", []byte("planted"))

	data, ok, _ := m.Load("k")
	if !ok || string(data) != "planted" {
		t.Fatalf("got %q ok=%v", data, ok)
	}
}

// ============================================================
// Saver
// ============================================================

func TestSaverWritesLatestSnapshot(t *testing.T) {
	m := NewMemory()
	s := NewSaver(m, "k")
	defer s.Close()

	s.Save([]byte("one"))
	s.Save([]byte("two"))
	s.Save([]byte("three"))
	s.Flush()

	data, ok, _ := m.Load("k")
	if !ok {
		t.Fatal("nothing written")
	}
	// Intermediate snapshots may be coalesced away, but the final state
	// must be the newest one.
	if string(data) != "three" {
		t.Fatalf("expected latest snapshot, got %q", data)
	}
}

func TestSaverSaveAfterCloseIsNoop(t *testing.T) {
	m := NewMemory()
	s := NewSaver(m, "k")

	s.Save([]byte("before"))
	s.Close()
	s.Save([]byte("after"))

	data, ok, _ := m.Load("k")
	if !ok || string(data) != "before" {
		t.Fatalf("got %q ok=%v", data, ok)
	}
}

func TestSaverSurvivesBackendErrors(t *testing.T) {
	m := NewMemory()
	m.FailSaves(true)
	s := NewSaver(m, "k")
	defer s.Close()

	// Writes fail silently; the saver must not wedge.
	s.Save([]byte("lost"))
	s.Flush()

	m.FailSaves(false)
	s.Save([]byte("kept"))
	s.Flush()

	data, ok, _ := m.Load("k")
	if !ok || string(data) != "kept" {
		t.Fatalf("got %q ok=%v", data, ok)
	}
}
