// Package habit owns habit definitions, their daily completion log, and
// streak bookkeeping. Habits are retired by flipping IsActive off so the log
// stays meaningful; Remove is the explicit hard-delete escape hatch.
package habit

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"momentum/internal/clock"
	"momentum/internal/storage"
)

const snapshotKey = "habit-store"

type Frequency string

const (
	Daily    Frequency = "daily"
	Weekdays Frequency = "weekdays"
	Custom   Frequency = "custom"
)

type Habit struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Icon          string    `json:"icon"`
	TargetValue   int       `json:"targetValue"`
	Unit          string    `json:"unit"`
	Frequency     Frequency `json:"frequency"`
	CustomDays    []int     `json:"customDays,omitempty"` // time.Weekday values, only for Custom
	PointsReward  int       `json:"pointsReward"`
	CurrentStreak int       `json:"currentStreak"`
	LongestStreak int       `json:"longestStreak"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Log is one habit-day completion record. One log per (habit, date).
type Log struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Completed bool      `json:"completed"`
	Value     int       `json:"value,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch applies partial updates; nil fields are left untouched.
type Patch struct {
	Name          *string
	Description   *string
	Icon          *string
	TargetValue   *int
	Unit          *string
	Frequency     *Frequency
	CustomDays    *[]int
	PointsReward  *int
	CurrentStreak *int
	LongestStreak *int
	IsActive      *bool
}

type snapshot struct {
	Habits []Habit `json:"habits"`
	Logs   []Log   `json:"logs"`
}

type Store struct {
	mu     sync.Mutex
	clk    clock.Clock
	saver  *storage.Saver
	habits []Habit
	logs   []Log
}

func NewStore(backend storage.Backend, clk clock.Clock) *Store {
	s := &Store{clk: clk, saver: storage.NewSaver(backend, snapshotKey)}
	if data, ok, err := backend.Load(snapshotKey); err == nil && ok {
		var snap snapshot
		if json.Unmarshal(data, &snap) == nil {
			s.habits = snap.Habits
			s.logs = snap.Logs
		}
	}
	// Restore the invariant in case an old snapshot violates it.
	for i := range s.habits {
		if s.habits[i].LongestStreak < s.habits[i].CurrentStreak {
			s.habits[i].LongestStreak = s.habits[i].CurrentStreak
		}
	}
	return s
}

func (s *Store) persist() {
	if data, err := json.Marshal(snapshot{Habits: s.habits, Logs: s.logs}); err == nil {
		s.saver.Save(data)
	}
}

// Add creates a habit with zeroed streaks, active by default.
func (s *Store) Add(h Habit) Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clk.Now()
	h.ID = uuid.NewString()
	h.CurrentStreak = 0
	h.LongestStreak = 0
	h.IsActive = true
	h.CreatedAt = now
	h.UpdatedAt = now
	s.habits = append(s.habits, h)
	s.persist()
	return h
}

// Update patches a habit. Any write that would leave the longest streak
// below the current one raises the longest to match.
func (s *Store) Update(id string, p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	h := &s.habits[i]
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.TargetValue != nil {
		h.TargetValue = *p.TargetValue
	}
	if p.Unit != nil {
		h.Unit = *p.Unit
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.CustomDays != nil {
		h.CustomDays = *p.CustomDays
	}
	if p.PointsReward != nil {
		h.PointsReward = *p.PointsReward
	}
	if p.CurrentStreak != nil {
		h.CurrentStreak = *p.CurrentStreak
	}
	if p.LongestStreak != nil {
		h.LongestStreak = *p.LongestStreak
	}
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
	if h.LongestStreak < h.CurrentStreak {
		h.LongestStreak = h.CurrentStreak
	}
	h.UpdatedAt = s.clk.Now()
	s.persist()
}

// Remove hard-deletes a habit. Its logs are kept; a dangling habit id in the
// log only yields "not found" on dereference.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	s.persist()
}

func (s *Store) Get(id string) (Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Habit{}, false
	}
	return s.habits[i], true
}

func (s *Store) List() []Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// Active returns habits not yet retired.
func (s *Store) Active() []Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Habit
	for _, h := range s.habits {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out
}

// LogCompletion records a completion for (habitID, date). Idempotent per
// habit-day: an existing log is updated in place.
func (s *Store) LogCompletion(habitID, date string, value int, note string) Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logs {
		if s.logs[i].HabitID == habitID && s.logs[i].Date == date {
			s.logs[i].Completed = true
			s.logs[i].Value = value
			s.logs[i].Note = note
			s.persist()
			return s.logs[i]
		}
	}
	l := Log{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Date:      date,
		Completed: true,
		Value:     value,
		Note:      note,
		CreatedAt: s.clk.Now(),
	}
	s.logs = append(s.logs, l)
	s.persist()
	return l
}

// LogsFor returns the completion log for one habit.
func (s *Store) LogsFor(habitID string) []Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Log
	for _, l := range s.logs {
		if l.HabitID == habitID {
			out = append(out, l)
		}
	}
	return out
}

// CompletedOn reports whether the habit has a completed log for the date.
func (s *Store) CompletedOn(habitID, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.logs {
		if l.HabitID == habitID && l.Date == date && l.Completed {
			return true
		}
	}
	return false
}

// ApplyStreak recomputes the habit's streaks from its log as of today.
// The longest streak never shrinks.
func (s *Store) ApplyStreak(habitID, today string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(habitID)
	if i < 0 {
		return
	}
	h := &s.habits[i]
	var logs []Log
	for _, l := range s.logs {
		if l.HabitID == habitID {
			logs = append(logs, l)
		}
	}
	current, longest := RecomputeStreak(logs, today, h.Frequency, h.CustomDays)
	h.CurrentStreak = current
	if longest > h.LongestStreak {
		h.LongestStreak = longest
	}
	if h.LongestStreak < h.CurrentStreak {
		h.LongestStreak = h.CurrentStreak
	}
	h.UpdatedAt = s.clk.Now()
	s.persist()
}

func (s *Store) index(id string) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// Flush blocks until pending snapshot writes reach the backend.
func (s *Store) Flush() { s.saver.Flush() }

func (s *Store) Close() { s.saver.Close() }
