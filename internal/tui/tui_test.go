package tui

import (
	"strings"
	"testing"
	"time"

	"momentum/internal/clock"
	"momentum/internal/engine"
	"momentum/internal/habit"
	"momentum/internal/points"
	"momentum/internal/pomodoro"
	"momentum/internal/storage"
	"momentum/internal/task"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	eng := engine.New(storage.NewMemory(), clk)
	t.Cleanup(func() { eng.Close() })
	return eng
}

// ============================================================
// Matrix model
// ============================================================

func TestMatrixCycleStatusAwardsPoints(t *testing.T) {
	eng := newTestEngine(t)
	created := eng.Tasks.Add(task.Task{Title: "ship", Quadrant: task.UrgentImportant, PointsReward: 10})

	m := newMatrixModel(eng)
	m.tasks = eng.Tasks.Today()

	// todo -> in_progress: no award yet.
	m, _ = m.cycleStatus()
	if _, current := eng.Points.Balance(); current != 0 {
		t.Fatalf("points awarded too early: %d", current)
	}

	// in_progress -> done: award lands.
	m.tasks = eng.Tasks.Today()
	m, _ = m.cycleStatus()

	got, _ := eng.Tasks.Get(created.ID)
	if got.Status != task.StatusDone {
		t.Fatalf("status = %q", got.Status)
	}
	total, current := eng.Points.Balance()
	if total != 10 || current != 10 {
		t.Fatalf("balance = %d/%d, want 10/10", total, current)
	}

	// done -> todo: the award stays.
	m.tasks = eng.Tasks.Today()
	m, _ = m.cycleStatus()
	got, _ = eng.Tasks.Get(created.ID)
	if got.Status != task.StatusTodo {
		t.Fatalf("status = %q", got.Status)
	}
	if total, _ := eng.Points.Balance(); total != 10 {
		t.Fatalf("un-completing clawed back points: total = %d", total)
	}
}

// ============================================================
// Habits model
// ============================================================

func TestHabitCheckInAwardsOncePerDay(t *testing.T) {
	eng := newTestEngine(t)
	eng.Habits.Add(habit.Habit{Name: "read", Frequency: habit.Daily, TargetValue: 1, PointsReward: 5})

	h := newHabitsModel(eng)
	h.habits = eng.Habits.Active()

	h, _ = h.checkIn()
	total, _ := eng.Points.Balance()
	if total != 5 {
		t.Fatalf("total = %d, want 5 after first check-in", total)
	}

	// Same day again: no double award, no extra log.
	h.habits = eng.Habits.Active()
	h, _ = h.checkIn()
	if total, _ := eng.Points.Balance(); total != 5 {
		t.Fatalf("double award: total = %d", total)
	}

	hb := eng.Habits.Active()[0]
	if len(eng.Habits.LogsFor(hb.ID)) != 1 {
		t.Fatal("duplicate log created")
	}
	if hb.CurrentStreak != 1 {
		t.Fatalf("streak = %d, want 1", hb.CurrentStreak)
	}
}

func TestStreakBonusMilestones(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{0, 0},
		{1, 0},
		{6, 0},
		{7, 10},
		{8, 0},
		{14, 20},
		{70, 100},
	}
	for _, c := range cases {
		if got := streakBonus(c.streak); got != c.want {
			t.Errorf("streakBonus(%d) = %d, want %d", c.streak, got, c.want)
		}
	}
}

func TestHabitFormCustomDays(t *testing.T) {
	eng := newTestEngine(t)

	h := newHabitsModel(eng)
	*h.formName = "gym"
	*h.formFrequency = string(habit.Custom)
	*h.formDays = []int{int(time.Monday), int(time.Wednesday), int(time.Friday)}
	h.submitForm()

	hb := eng.Habits.Active()[0]
	if hb.Frequency != habit.Custom || len(hb.CustomDays) != 3 {
		t.Fatalf("habit = %+v", hb)
	}
	// 2025-03-10 is a Monday, 2025-03-11 a Tuesday.
	if !habit.ScheduledOn(hb.Frequency, hb.CustomDays, "2025-03-10") {
		t.Fatal("not scheduled on a selected day")
	}
	if habit.ScheduledOn(hb.Frequency, hb.CustomDays, "2025-03-11") {
		t.Fatal("scheduled on an unselected day")
	}
}

func TestHabitFormCustomWithoutDaysFallsBackToDaily(t *testing.T) {
	eng := newTestEngine(t)

	h := newHabitsModel(eng)
	*h.formName = "stretch"
	*h.formFrequency = string(habit.Custom)
	h.submitForm()

	hb := eng.Habits.Active()[0]
	if hb.Frequency != habit.Daily {
		t.Fatalf("frequency = %q, want fallback to daily", hb.Frequency)
	}
}

// ============================================================
// Stats model
// ============================================================

func TestStatsLevelProgressBar(t *testing.T) {
	eng := newTestEngine(t)
	eng.Points.AddPoints(350, points.TypeTaskComplete, "t", "")

	s := newStatsModel(eng)
	// 350 lifetime points sit at level 3: 50 into a 300-point level, 17%.
	bar := s.renderLevelProgress(eng.Points.UserLevel(), 50)

	if filled := strings.Count(bar, "█"); filled != 8 {
		t.Fatalf("filled cells = %d, want 8 (17%% of 50)", filled)
	}
	if !strings.Contains(bar, "50/300 to next level") {
		t.Fatalf("caption missing from %q", bar)
	}
}

// ============================================================
// Pomodoro model
// ============================================================

func TestPomodoroFinishCreditsTaskAndChains(t *testing.T) {
	eng := newTestEngine(t)
	created := eng.Tasks.Add(task.Task{Title: "deep work", Quadrant: task.NotUrgentImportant})

	cfg := eng.Config.Get().Pomodoro
	cfg.AutoStartNext = true
	eng.Config.SetPomodoro(cfg)

	eng.Timer.SetCurrentTask(created.ID)
	eng.Timer.Reset(1)

	p := newPomodoroModel(eng)
	p, _ = p.toggle()
	if !eng.Timer.IsRunning() {
		t.Fatal("toggle did not start the timer")
	}
	if p.sessionID == "" {
		t.Fatal("no history session opened")
	}
	firstSession := p.sessionID

	// The final tick finishes the focus period and chains into a break.
	p, _ = p.update(tickMsg(time.Time{}))

	got, _ := eng.Tasks.Get(created.ID)
	if got.CompletedPomodoros != 1 {
		t.Fatalf("completedPomodoros = %d, want 1", got.CompletedPomodoros)
	}

	sessions := eng.Sessions.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want finished focus + chained break", len(sessions))
	}
	if sessions[0].ID != firstSession || !sessions[0].Completed {
		t.Fatalf("focus session not closed: %+v", sessions[0])
	}

	if eng.Timer.Mode() == pomodoro.Focus {
		t.Fatal("timer did not chain into a break")
	}
	if !eng.Timer.IsRunning() {
		t.Fatal("auto-start must leave the next period running")
	}
}

func TestPomodoroPauseKeepsSession(t *testing.T) {
	eng := newTestEngine(t)
	eng.Timer.Reset(10)

	p := newPomodoroModel(eng)
	p, _ = p.toggle()
	id := p.sessionID

	// Pause, then resume: same session continues.
	p, _ = p.toggle()
	if eng.Timer.IsRunning() {
		t.Fatal("second toggle should pause")
	}
	p, _ = p.toggle()
	if p.sessionID != id {
		t.Fatal("pause/resume must not open a new session")
	}
	if len(eng.Sessions.Sessions()) != 1 {
		t.Fatalf("got %d sessions", len(eng.Sessions.Sessions()))
	}
}

func TestPomodoroModeSwitchAbandonsSession(t *testing.T) {
	eng := newTestEngine(t)
	eng.Timer.Reset(10)

	p := newPomodoroModel(eng)
	p, _ = p.toggle()

	p, _ = p.switchMode(pomodoro.ShortBreak)

	sessions := eng.Sessions.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	if sessions[0].Completed {
		t.Fatal("abandoned session marked complete")
	}
	if sessions[0].EndedAt == nil {
		t.Fatal("abandoned session left open")
	}
	if eng.Timer.IsRunning() {
		t.Fatal("mode switch must stop the timer")
	}
	if eng.Timer.TimeRemaining() != eng.Config.Get().Pomodoro.DurationSeconds(pomodoro.ShortBreak) {
		t.Fatalf("remaining = %d", eng.Timer.TimeRemaining())
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsSaveRejectsInvalidNumbers(t *testing.T) {
	eng := newTestEngine(t)

	s := newSettingsModel(eng)
	*s.userName = "Deniz"
	*s.theme = "dark"
	*s.focusMin = "banana"
	*s.shortMin = "0"
	*s.longMin = "20"
	*s.longInterval = "4"
	*s.autoStartNext = true
	*s.soundEnabled = false

	s.save()

	cfg := eng.Config.Get()
	if cfg.UserName != "Deniz" || cfg.Theme != "dark" {
		t.Fatalf("profile not saved: %+v", cfg)
	}
	// Unparseable and non-positive durations keep their previous values.
	if cfg.Pomodoro.FocusDuration != 25 {
		t.Fatalf("focus = %d, want previous 25", cfg.Pomodoro.FocusDuration)
	}
	if cfg.Pomodoro.ShortBreakDuration != 5 {
		t.Fatalf("short = %d, want previous 5", cfg.Pomodoro.ShortBreakDuration)
	}
	if cfg.Pomodoro.LongBreakDuration != 20 {
		t.Fatalf("long = %d, want 20", cfg.Pomodoro.LongBreakDuration)
	}
	if !cfg.Pomodoro.AutoStartNext || cfg.Pomodoro.SoundEnabled {
		t.Fatalf("toggles not saved: %+v", cfg.Pomodoro)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("a long title here", 7); got != "a long…" {
		t.Fatalf("got %q", got)
	}
	// Rune-safe on multibyte text.
	if got := truncate("çalışma zamanı", 8); got != "çalışma…" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatPoints(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, c := range cases {
		if got := formatPoints(c.n); got != c.want {
			t.Errorf("formatPoints(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
