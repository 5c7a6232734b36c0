package config

import (
	"testing"
	"time"

	"momentum/internal/clock"
	"momentum/internal/pomodoro"
	"momentum/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	s := NewStore(storage.NewMemory(), clk)
	t.Cleanup(s.Close)
	return s
}

// ============================================================
// Defaults and loading
// ============================================================

func TestFreshStoreHasDefaults(t *testing.T) {
	s := newTestStore(t)
	cfg := s.Get()

	if cfg.Pomodoro.FocusDuration != 25 ||
		cfg.Pomodoro.ShortBreakDuration != 5 ||
		cfg.Pomodoro.LongBreakDuration != 15 ||
		cfg.Pomodoro.LongBreakInterval != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg.Pomodoro)
	}
	if !cfg.Pomodoro.SoundEnabled {
		t.Fatal("sound defaults on")
	}
	if cfg.Pomodoro.AutoStartNext {
		t.Fatal("auto-start defaults off")
	}
	if cfg.Theme != "system" {
		t.Fatalf("theme = %q", cfg.Theme)
	}
}

func TestPartialSnapshotKeepsDefaultsForMissingFields(t *testing.T) {
	backend := storage.NewMemory()
	backend.Seed("app-config", []byte(`{"userName":"Deniz","pomodoro":{"focusDuration":50}}`))
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))

	s := NewStore(backend, clk)
	defer s.Close()

	cfg := s.Get()
	if cfg.UserName != "Deniz" {
		t.Fatalf("userName = %q", cfg.UserName)
	}
	if cfg.Pomodoro.FocusDuration != 50 {
		t.Fatalf("focusDuration = %d", cfg.Pomodoro.FocusDuration)
	}
	// Fields absent from the snapshot keep their defaults.
	if cfg.Pomodoro.LongBreakInterval != 4 {
		t.Fatalf("longBreakInterval = %d, want default 4", cfg.Pomodoro.LongBreakInterval)
	}
}

func TestCorruptSnapshotYieldsDefaults(t *testing.T) {
	backend := storage.NewMemory()
	backend.Seed("app-config", []byte("{{{{"))
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))

	s := NewStore(backend, clk)
	defer s.Close()

	if s.Get().Pomodoro.FocusDuration != 25 {
		t.Fatal("corrupt snapshot must yield defaults")
	}
}

// ============================================================
// Mutation and persistence
// ============================================================

func TestSettersPersist(t *testing.T) {
	backend := storage.NewMemory()
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))

	s := NewStore(backend, clk)
	s.SetUserName("Deniz")
	s.SetTheme("dark")
	p := s.Get().Pomodoro
	p.FocusDuration = 45
	s.SetPomodoro(p)
	s.Flush()
	s.Close()

	s2 := NewStore(backend, clk)
	defer s2.Close()

	cfg := s2.Get()
	if cfg.UserName != "Deniz" || cfg.Theme != "dark" || cfg.Pomodoro.FocusDuration != 45 {
		t.Fatalf("restored config wrong: %+v", cfg)
	}
}

// ============================================================
// Duration lookup
// ============================================================

func TestDurationSeconds(t *testing.T) {
	p := Pomodoro{FocusDuration: 25, ShortBreakDuration: 5, LongBreakDuration: 15}

	if p.DurationSeconds(pomodoro.Focus) != 1500 {
		t.Fatalf("focus = %d", p.DurationSeconds(pomodoro.Focus))
	}
	if p.DurationSeconds(pomodoro.ShortBreak) != 300 {
		t.Fatalf("short = %d", p.DurationSeconds(pomodoro.ShortBreak))
	}
	if p.DurationSeconds(pomodoro.LongBreak) != 900 {
		t.Fatalf("long = %d", p.DurationSeconds(pomodoro.LongBreak))
	}
}
