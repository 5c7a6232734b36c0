package pomodoro

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"momentum/internal/clock"
	"momentum/internal/storage"
)

const snapshotKey = "pomodoro-sessions"

// Session is one recorded timer run. TaskID is a weak reference.
type Session struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId,omitempty"`
	Mode      Mode       `json:"mode"`
	Duration  int        `json:"duration"` // planned seconds
	Elapsed   int        `json:"elapsed"`  // actual seconds
	Completed bool       `json:"completed"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

type historySnapshot struct {
	Sessions []Session `json:"sessions"`
}

// History persists finished and in-flight timer runs for the stats view.
type History struct {
	mu       sync.Mutex
	clk      clock.Clock
	saver    *storage.Saver
	sessions []Session
}

func NewHistory(backend storage.Backend, clk clock.Clock) *History {
	h := &History{clk: clk, saver: storage.NewSaver(backend, snapshotKey)}
	if data, ok, err := backend.Load(snapshotKey); err == nil && ok {
		var snap historySnapshot
		if json.Unmarshal(data, &snap) == nil {
			h.sessions = snap.Sessions
		}
	}
	return h
}

func (h *History) persist() {
	if data, err := json.Marshal(historySnapshot{Sessions: h.sessions}); err == nil {
		h.saver.Save(data)
	}
}

// Start records a new running session and returns it.
func (h *History) Start(taskID string, mode Mode, duration int) Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := Session{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Mode:      mode,
		Duration:  duration,
		StartedAt: h.clk.Now(),
	}
	h.sessions = append(h.sessions, s)
	h.persist()
	return s
}

// Finish closes a session. Unknown ids are a no-op.
func (h *History) Finish(id string, elapsed int, completed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.sessions {
		if h.sessions[i].ID != id {
			continue
		}
		now := h.clk.Now()
		h.sessions[i].Elapsed = elapsed
		h.sessions[i].Completed = completed
		h.sessions[i].EndedAt = &now
		h.persist()
		return
	}
}

func (h *History) Sessions() []Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Session, len(h.sessions))
	copy(out, h.sessions)
	return out
}

// CompletedFocusOn counts completed focus sessions started on the given
// calendar day.
func (h *History) CompletedFocusOn(date string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.sessions {
		if s.Mode == Focus && s.Completed && s.StartedAt.Format(clock.DateFormat) == date {
			n++
		}
	}
	return n
}

// Flush blocks until pending snapshot writes reach the backend.
func (h *History) Flush() { h.saver.Flush() }

func (h *History) Close() { h.saver.Close() }
