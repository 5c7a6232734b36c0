package engine

import (
	"testing"
	"time"

	"momentum/internal/clock"
	"momentum/internal/points"
	"momentum/internal/storage"
	"momentum/internal/task"
)

func fixedClock() *clock.Fixed {
	return clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
}

func TestNewWiresEveryStore(t *testing.T) {
	eng := New(storage.NewMemory(), fixedClock())
	defer eng.Close()

	if eng.Config == nil || eng.Tasks == nil || eng.Habits == nil ||
		eng.Points == nil || eng.Timer == nil || eng.Sessions == nil {
		t.Fatal("store missing from engine")
	}
}

func TestTimerSeededFromConfig(t *testing.T) {
	backend := storage.NewMemory()
	clk := fixedClock()

	// Persist a non-default focus duration, then rebuild the engine.
	first := New(backend, clk)
	p := first.Config.Get().Pomodoro
	p.FocusDuration = 50
	first.Config.SetPomodoro(p)
	first.Close()

	eng := New(backend, clk)
	defer eng.Close()

	if eng.Timer.TimeRemaining() != 50*60 {
		t.Fatalf("timer seeded with %d, want %d", eng.Timer.TimeRemaining(), 50*60)
	}
	if eng.Timer.IsRunning() {
		t.Fatal("timer must start stopped")
	}
}

func TestCloseFlushesEverything(t *testing.T) {
	backend := storage.NewMemory()
	eng := New(backend, fixedClock())

	eng.Tasks.Add(task.Task{Title: "persist me"})
	eng.Points.AddPoints(10, points.TypeManual, "", "seed")
	eng.Config.SetUserName("Deniz")

	if err := eng.Close(); err != nil {
		t.Fatal(err)
	}

	// Everything must have reached the backend before Close returned.
	for _, key := range []string{"task-store", "points-store", "app-config"} {
		if _, ok, _ := backend.Load(key); !ok {
			t.Fatalf("key %q never written", key)
		}
	}
}
