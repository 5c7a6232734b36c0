// Package config is the persisted settings surface. Durations are minutes
// at the edge and converted to seconds where the timer consumes them.
package config

import (
	"encoding/json"
	"sync"
	"time"

	"momentum/internal/clock"
	"momentum/internal/pomodoro"
	"momentum/internal/storage"
)

const snapshotKey = "app-config"

type Pomodoro struct {
	FocusDuration      int  `json:"focusDuration"`      // minutes
	ShortBreakDuration int  `json:"shortBreakDuration"` // minutes
	LongBreakDuration  int  `json:"longBreakDuration"`  // minutes
	LongBreakInterval  int  `json:"longBreakInterval"`  // focus sessions per long break
	AutoStartNext      bool `json:"autoStartNext"`
	SoundEnabled       bool `json:"soundEnabled"`
}

// DurationSeconds returns the configured duration for a timer mode.
func (p Pomodoro) DurationSeconds(mode pomodoro.Mode) int {
	switch mode {
	case pomodoro.ShortBreak:
		return p.ShortBreakDuration * 60
	case pomodoro.LongBreak:
		return p.LongBreakDuration * 60
	default:
		return p.FocusDuration * 60
	}
}

type Config struct {
	UserName  string    `json:"userName"`
	Theme     string    `json:"theme"`
	Pomodoro  Pomodoro  `json:"pomodoro"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func defaults(now time.Time) Config {
	return Config{
		Theme: "system",
		Pomodoro: Pomodoro{
			FocusDuration:      25,
			ShortBreakDuration: 5,
			LongBreakDuration:  15,
			LongBreakInterval:  4,
			AutoStartNext:      false,
			SoundEnabled:       true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type Store struct {
	mu    sync.Mutex
	clk   clock.Clock
	saver *storage.Saver
	cfg   Config
}

// NewStore loads the config snapshot. Unmarshalling over the defaults means
// fields missing from an older snapshot keep their default values, and a
// corrupt snapshot yields pure defaults.
func NewStore(backend storage.Backend, clk clock.Clock) *Store {
	s := &Store{clk: clk, saver: storage.NewSaver(backend, snapshotKey)}
	s.cfg = defaults(clk.Now())
	if data, ok, err := backend.Load(snapshotKey); err == nil && ok {
		fresh := defaults(clk.Now())
		if json.Unmarshal(data, &fresh) == nil {
			s.cfg = fresh
		}
	}
	return s
}

func (s *Store) persist() {
	if data, err := json.Marshal(s.cfg); err == nil {
		s.saver.Save(data)
	}
}

func (s *Store) Get() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Store) SetPomodoro(p Pomodoro) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Pomodoro = p
	s.cfg.UpdatedAt = s.clk.Now()
	s.persist()
}

func (s *Store) SetUserName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.UserName = name
	s.cfg.UpdatedAt = s.clk.Now()
	s.persist()
}

func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Theme = theme
	s.cfg.UpdatedAt = s.clk.Now()
	s.persist()
}

// Flush blocks until pending snapshot writes reach the backend.
func (s *Store) Flush() { s.saver.Flush() }

func (s *Store) Close() { s.saver.Close() }
