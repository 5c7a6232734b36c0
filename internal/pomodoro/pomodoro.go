// Package pomodoro holds the focus-timer state machine and the persisted
// session history. The timer itself is ephemeral: it lives and dies with the
// process and is never snapshotted.
package pomodoro

import (
	"fmt"
	"sync"
)

type Mode string

const (
	Focus      Mode = "focus"
	ShortBreak Mode = "short_break"
	LongBreak  Mode = "long_break"
)

// Timer is a discrete countdown. Ticks arrive from an external one-second
// schedule; each Tick is one sequential transition and a tick against a
// stopped timer is a no-op, so a late tick after reset or navigation cannot
// corrupt state.
//
// SetMode and Reset are decoupled on purpose: switching mode does not touch
// the clock, and callers that forget the explicit Reset keep counting down
// the old duration.
type Timer struct {
	mu             sync.Mutex
	mode           Mode
	running        bool
	remaining      int // seconds
	total          int
	currentTaskID  string
	completedToday int
}

// NewTimer starts in focus mode with the given duration in seconds, stopped.
func NewTimer(duration int) *Timer {
	return &Timer{mode: Focus, remaining: duration, total: duration}
}

// SetMode replaces the mode only. The countdown is untouched.
func (t *Timer) SetMode(m Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = m
}

// Reset loads a fresh duration and forces the timer stopped, regardless of
// prior state.
func (t *Timer) Reset(duration int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = duration
	t.total = duration
	t.running = false
}

func (t *Timer) SetRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = running
}

func (t *Timer) SetCurrentTask(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentTaskID = taskID
}

// Tick advances the countdown by one second. The tick that reaches zero
// stops the timer; a finished focus period counts toward today's completed
// sessions. A timer set running with nothing left on the clock just stops:
// only an actual countdown earns the completion. The machine never chains
// modes; that is the caller's decision.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	if t.remaining <= 0 {
		t.running = false
		return
	}
	t.remaining--
	if t.remaining == 0 {
		t.running = false
		if t.mode == Focus {
			t.completedToday++
		}
	}
}

func (t *Timer) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) TimeRemaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) CurrentTask() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentTaskID
}

func (t *Timer) CompletedToday() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completedToday
}

// Progress reports the elapsed fraction, 0 when no duration is loaded.
func (t *Timer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total == 0 {
		return 0
	}
	return float64(t.total-t.remaining) / float64(t.total)
}

// Display renders the countdown as MM:SS.
func (t *Timer) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return FormatSeconds(t.remaining)
}

func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
