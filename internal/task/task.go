// Package task owns the Eisenhower board: task records, their status
// lifecycle, quadrant placement, and manual ordering. The store is
// deliberately permissive: any status value is accepted and writes against
// unknown ids are silent no-ops; workflow legality belongs to the caller.
package task

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"momentum/internal/clock"
	"momentum/internal/storage"
)

const snapshotKey = "task-store"

type Quadrant string

const (
	UrgentImportant       Quadrant = "urgent-important"
	NotUrgentImportant    Quadrant = "not-urgent-important"
	UrgentNotImportant    Quadrant = "urgent-not-important"
	NotUrgentNotImportant Quadrant = "not-urgent-not-important"
)

// Quadrants lists the board's quadrants in display order.
var Quadrants = []Quadrant{
	UrgentImportant,
	NotUrgentImportant,
	UrgentNotImportant,
	NotUrgentNotImportant,
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

type Task struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Quadrant           Quadrant   `json:"quadrant"`
	Status             Status     `json:"status"`
	GoalID             string     `json:"goalId,omitempty"` // weak reference, never enforced
	Date               string     `json:"date"`             // local calendar day, YYYY-MM-DD
	EstimatedPomodoros int        `json:"estimatedPomodoros"`
	CompletedPomodoros int        `json:"completedPomodoros"`
	PointsReward       int        `json:"pointsReward"`
	DueTime            string     `json:"dueTime,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
	Order              float64    `json:"order"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Patch applies partial updates; nil fields are left untouched.
type Patch struct {
	Title              *string
	Description        *string
	Quadrant           *Quadrant
	GoalID             *string
	Date               *string
	EstimatedPomodoros *int
	PointsReward       *int
	DueTime            *string
	Tags               *[]string
}

type snapshot struct {
	Tasks []Task `json:"tasks"`
}

type Store struct {
	mu    sync.Mutex
	clk   clock.Clock
	saver *storage.Saver
	tasks []Task
}

// NewStore restores the board from its snapshot; missing or corrupt data
// starts an empty board.
func NewStore(backend storage.Backend, clk clock.Clock) *Store {
	s := &Store{clk: clk, saver: storage.NewSaver(backend, snapshotKey)}
	if data, ok, err := backend.Load(snapshotKey); err == nil && ok {
		var snap snapshot
		if json.Unmarshal(data, &snap) == nil {
			s.tasks = snap.Tasks
		}
	}
	return s
}

func (s *Store) persist() {
	if data, err := json.Marshal(snapshot{Tasks: s.tasks}); err == nil {
		s.saver.Save(data)
	}
}

// Add creates a task. Status is forced to todo and the pomodoro counter to
// zero regardless of what the caller supplies.
func (s *Store) Add(t Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clk.Now()
	t.ID = uuid.NewString()
	t.Status = StatusTodo
	t.CompletedPomodoros = 0
	t.CompletedAt = nil
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Date == "" {
		t.Date = now.Format(clock.DateFormat)
	}
	s.tasks = append(s.tasks, t)
	s.persist()
	return t
}

func (s *Store) Update(id string, p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	t := &s.tasks[i]
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Quadrant != nil {
		t.Quadrant = *p.Quadrant
	}
	if p.GoalID != nil {
		t.GoalID = *p.GoalID
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.EstimatedPomodoros != nil {
		t.EstimatedPomodoros = *p.EstimatedPomodoros
	}
	if p.PointsReward != nil {
		t.PointsReward = *p.PointsReward
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	t.UpdatedAt = s.clk.Now()
	s.persist()
}

// Remove hard-deletes a task. Irreversible.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist()
}

// SetStatus transitions a task. Done stamps CompletedAt; every other status
// clears it, so done → todo → done yields a fresh timestamp.
func (s *Store) SetStatus(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	t := &s.tasks[i]
	now := s.clk.Now()
	t.Status = status
	if status == StatusDone {
		stamp := now
		t.CompletedAt = &stamp
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	s.persist()
}

// Move reassigns the quadrant. Independent of status; CompletedAt is never
// touched here.
func (s *Store) Move(id string, q Quadrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	s.tasks[i].Quadrant = q
	s.tasks[i].UpdatedAt = s.clk.Now()
	s.persist()
}

// Reorder assigns a new sort key. Sibling keys are left alone; spacing and
// collision avoidance are the caller's job.
func (s *Store) Reorder(id string, order float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	s.tasks[i].Order = order
	s.tasks[i].UpdatedAt = s.clk.Now()
	s.persist()
}

// IncrementPomodoros records a completed focus session against a task.
func (s *Store) IncrementPomodoros(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	s.tasks[i].CompletedPomodoros++
	s.tasks[i].UpdatedAt = s.clk.Now()
	s.persist()
}

func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// List returns all tasks sorted by order, ties broken by creation time.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.tasks)
}

// ForDate returns tasks scheduled on the given calendar day.
func (s *Store) ForDate(date string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, t := range s.tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return sorted(out)
}

// Today filters on the clock's current local day at read time. A task's
// board membership therefore changes at local midnight without any write.
func (s *Store) Today() []Task {
	return s.ForDate(clock.Today(s.clk))
}

// DoneTodayCount counts today's completed tasks.
func (s *Store) DoneTodayCount() int {
	n := 0
	for _, t := range s.Today() {
		if t.Status == StatusDone {
			n++
		}
	}
	return n
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func sorted(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Flush blocks until pending snapshot writes reach the backend.
func (s *Store) Flush() { s.saver.Flush() }

func (s *Store) Close() { s.saver.Close() }
