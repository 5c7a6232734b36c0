package pomodoro

import (
	"testing"
	"time"

	"momentum/internal/clock"
	"momentum/internal/storage"
)

func newTestHistory(t *testing.T) (*History, *clock.Fixed) {
	t.Helper()
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	h := NewHistory(storage.NewMemory(), clk)
	t.Cleanup(h.Close)
	return h, clk
}

// ============================================================
// Session recording
// ============================================================

func TestStartAndFinishSession(t *testing.T) {
	h, clk := newTestHistory(t)

	s := h.Start("task-1", Focus, 1500)
	if s.ID == "" || s.TaskID != "task-1" || s.Mode != Focus {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.EndedAt != nil {
		t.Fatal("fresh session must be open")
	}

	clk.Advance(25 * time.Minute)
	h.Finish(s.ID, 1500, true)

	got := h.Sessions()[0]
	if !got.Completed || got.Elapsed != 1500 {
		t.Fatalf("finish not recorded: %+v", got)
	}
	if got.EndedAt == nil || !got.EndedAt.After(got.StartedAt) {
		t.Fatal("endedAt not stamped after start")
	}
}

func TestFinishUnknownSessionIsNoop(t *testing.T) {
	h, _ := newTestHistory(t)
	h.Start("", Focus, 1500)

	h.Finish("ghost", 10, true)

	if got := h.Sessions()[0]; got.Completed || got.EndedAt != nil {
		t.Fatalf("wrong session touched: %+v", got)
	}
}

func TestAbandonedSessionRecordedIncomplete(t *testing.T) {
	h, _ := newTestHistory(t)

	s := h.Start("", Focus, 1500)
	h.Finish(s.ID, 600, false)

	got := h.Sessions()[0]
	if got.Completed {
		t.Fatal("abandoned session marked complete")
	}
	if got.Elapsed != 600 {
		t.Fatalf("elapsed = %d, want 600", got.Elapsed)
	}
}

// ============================================================
// Daily aggregation
// ============================================================

func TestCompletedFocusOnCountsByStartDay(t *testing.T) {
	h, clk := newTestHistory(t)

	a := h.Start("", Focus, 1500)
	h.Finish(a.ID, 1500, true)

	b := h.Start("", ShortBreak, 300) // breaks never count
	h.Finish(b.ID, 300, true)

	c := h.Start("", Focus, 1500) // abandoned, does not count
	h.Finish(c.ID, 200, false)

	clk.Advance(24 * time.Hour)
	d := h.Start("", Focus, 1500) // started the next day
	h.Finish(d.ID, 1500, true)

	if n := h.CompletedFocusOn("2025-03-10"); n != 1 {
		t.Fatalf("2025-03-10 count = %d, want 1", n)
	}
	if n := h.CompletedFocusOn("2025-03-11"); n != 1 {
		t.Fatalf("2025-03-11 count = %d, want 1", n)
	}
	if n := h.CompletedFocusOn("2025-03-12"); n != 0 {
		t.Fatalf("empty day count = %d, want 0", n)
	}
}

// ============================================================
// Persistence
// ============================================================

func TestHistoryRestoresFromSnapshot(t *testing.T) {
	backend := storage.NewMemory()
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))

	h := NewHistory(backend, clk)
	s := h.Start("task-1", Focus, 1500)
	h.Finish(s.ID, 1500, true)
	h.Flush()
	h.Close()

	h2 := NewHistory(backend, clk)
	defer h2.Close()

	sessions := h2.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	if sessions[0].ID != s.ID || !sessions[0].Completed {
		t.Fatalf("restored session wrong: %+v", sessions[0])
	}
	if h2.CompletedFocusOn("2025-03-10") != 1 {
		t.Fatal("aggregation broken after restore")
	}
}

func TestHistoryCorruptSnapshotStartsEmpty(t *testing.T) {
	backend := storage.NewMemory()
	backend.Seed("pomodoro-sessions", []byte("not json at all"))
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))

	h := NewHistory(backend, clk)
	defer h.Close()

	if len(h.Sessions()) != 0 {
		t.Fatal("corrupt snapshot must yield empty history")
	}
}
