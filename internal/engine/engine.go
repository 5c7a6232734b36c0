// Package engine is the composition root's state container: every store,
// built once over a shared backend and clock, passed by reference to the
// presentation layer. There are no package-level singletons anywhere in the
// module.
package engine

import (
	"momentum/internal/clock"
	"momentum/internal/config"
	"momentum/internal/habit"
	"momentum/internal/points"
	"momentum/internal/pomodoro"
	"momentum/internal/storage"
	"momentum/internal/task"
)

type Engine struct {
	Clock    clock.Clock
	Config   *config.Store
	Tasks    *task.Store
	Habits   *habit.Store
	Points   *points.Ledger
	Timer    *pomodoro.Timer
	Sessions *pomodoro.History

	backend storage.Backend
}

// New restores every store from the backend. The timer starts stopped in
// focus mode with the configured duration loaded.
func New(backend storage.Backend, clk clock.Clock) *Engine {
	cfg := config.NewStore(backend, clk)
	return &Engine{
		Clock:    clk,
		Config:   cfg,
		Tasks:    task.NewStore(backend, clk),
		Habits:   habit.NewStore(backend, clk),
		Points:   points.NewLedger(backend, clk),
		Timer:    pomodoro.NewTimer(cfg.Get().Pomodoro.DurationSeconds(pomodoro.Focus)),
		Sessions: pomodoro.NewHistory(backend, clk),
		backend:  backend,
	}
}

// Close flushes every pending snapshot write and closes the backend.
func (e *Engine) Close() error {
	e.Config.Close()
	e.Tasks.Close()
	e.Habits.Close()
	e.Points.Close()
	e.Sessions.Close()
	return e.backend.Close()
}

// Flush blocks until all pending snapshot writes reach the backend.
func (e *Engine) Flush() {
	e.Config.Flush()
	e.Tasks.Flush()
	e.Habits.Flush()
	e.Points.Flush()
	e.Sessions.Flush()
}
