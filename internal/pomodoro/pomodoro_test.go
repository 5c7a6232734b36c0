package pomodoro

import "testing"

// ============================================================
// Timer state machine
// ============================================================

func TestNewTimerStartsStoppedInFocus(t *testing.T) {
	tm := NewTimer(1500)
	if tm.Mode() != Focus {
		t.Fatalf("mode = %q", tm.Mode())
	}
	if tm.IsRunning() {
		t.Fatal("fresh timer must be stopped")
	}
	if tm.TimeRemaining() != 1500 {
		t.Fatalf("remaining = %d", tm.TimeRemaining())
	}
}

func TestTickNoopWhenStopped(t *testing.T) {
	tm := NewTimer(10)
	tm.Tick()
	if tm.TimeRemaining() != 10 {
		t.Fatalf("stopped timer ticked: remaining = %d", tm.TimeRemaining())
	}
}

func TestTickCountsDown(t *testing.T) {
	tm := NewTimer(3)
	tm.SetRunning(true)
	tm.Tick()
	if tm.TimeRemaining() != 2 {
		t.Fatalf("remaining = %d, want 2", tm.TimeRemaining())
	}
	if !tm.IsRunning() {
		t.Fatal("timer stopped early")
	}
}

func TestFinalTickStopsAndCountsFocusSession(t *testing.T) {
	tm := NewTimer(1)
	tm.SetRunning(true)

	// The single tick from remaining=1 does everything: reach zero, stop,
	// count the session.
	tm.Tick()

	if tm.TimeRemaining() != 0 {
		t.Fatalf("remaining = %d", tm.TimeRemaining())
	}
	if tm.IsRunning() {
		t.Fatal("timer must stop at zero")
	}
	if tm.CompletedToday() != 1 {
		t.Fatalf("completedToday = %d, want 1", tm.CompletedToday())
	}

	// A stray late tick changes nothing.
	tm.Tick()
	if tm.CompletedToday() != 1 || tm.TimeRemaining() != 0 {
		t.Fatal("late tick corrupted state")
	}
}

func TestTickAtZeroStopsWithoutCounting(t *testing.T) {
	// Forcing a timer running with nothing on the clock must not mint a
	// free focus session; the next tick just stops it.
	tm := NewTimer(0)
	tm.SetRunning(true)

	tm.Tick()

	if tm.IsRunning() {
		t.Fatal("timer must stop")
	}
	if tm.CompletedToday() != 0 {
		t.Fatalf("completedToday = %d, want 0", tm.CompletedToday())
	}
}

func TestBreakCompletionNotCounted(t *testing.T) {
	tm := NewTimer(1)
	tm.SetMode(ShortBreak)
	tm.SetRunning(true)
	tm.Tick()

	if tm.CompletedToday() != 0 {
		t.Fatalf("break counted as focus session: %d", tm.CompletedToday())
	}
	if tm.IsRunning() {
		t.Fatal("timer must stop at zero")
	}
}

func TestSetModeLeavesCountdownAlone(t *testing.T) {
	tm := NewTimer(100)
	tm.SetRunning(true)
	tm.Tick()

	tm.SetMode(LongBreak)

	if tm.Mode() != LongBreak {
		t.Fatalf("mode = %q", tm.Mode())
	}
	if tm.TimeRemaining() != 99 {
		t.Fatalf("SetMode touched the clock: remaining = %d", tm.TimeRemaining())
	}
	if !tm.IsRunning() {
		t.Fatal("SetMode must not stop the timer")
	}
}

func TestResetLoadsDurationAndStops(t *testing.T) {
	tm := NewTimer(100)
	tm.SetRunning(true)
	tm.Tick()

	tm.Reset(300)

	if tm.TimeRemaining() != 300 {
		t.Fatalf("remaining = %d, want 300", tm.TimeRemaining())
	}
	if tm.IsRunning() {
		t.Fatal("Reset must stop the timer")
	}
	if tm.Progress() != 0 {
		t.Fatalf("progress = %v after reset", tm.Progress())
	}
}

func TestCompletedTodaySurvivesReset(t *testing.T) {
	tm := NewTimer(1)
	tm.SetRunning(true)
	tm.Tick()
	tm.Reset(1500)

	if tm.CompletedToday() != 1 {
		t.Fatalf("completedToday = %d after reset", tm.CompletedToday())
	}
}

func TestCurrentTaskLink(t *testing.T) {
	tm := NewTimer(60)
	tm.SetCurrentTask("task-1")
	if tm.CurrentTask() != "task-1" {
		t.Fatalf("currentTask = %q", tm.CurrentTask())
	}
	tm.SetCurrentTask("")
	if tm.CurrentTask() != "" {
		t.Fatal("unlink failed")
	}
}

// ============================================================
// Progress and display
// ============================================================

func TestProgress(t *testing.T) {
	tm := NewTimer(4)
	tm.SetRunning(true)
	tm.Tick()
	if p := tm.Progress(); p != 0.25 {
		t.Fatalf("progress = %v, want 0.25", p)
	}
}

func TestProgressZeroDuration(t *testing.T) {
	tm := NewTimer(0)
	if p := tm.Progress(); p != 0 {
		t.Fatalf("progress = %v, want 0", p)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{3599, "59:59"},
		{-5, "00:00"},
	}
	for _, c := range cases {
		if got := FormatSeconds(c.secs); got != c.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	tm := NewTimer(1500)
	if tm.Display() != "25:00" {
		t.Fatalf("display = %q", tm.Display())
	}
}
