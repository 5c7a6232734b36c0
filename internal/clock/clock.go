// Package clock abstracts the current local time so "today" computations
// can be frozen and advanced in tests.
package clock

import "time"

// DateFormat is the calendar-day format used throughout the engine.
const DateFormat = "2006-01-02"

type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed is a test clock that only moves when told to.
type Fixed struct {
	Current time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{Current: t} }

func (f *Fixed) Now() time.Time { return f.Current }

func (f *Fixed) Set(t time.Time) { f.Current = t }

func (f *Fixed) Advance(d time.Duration) { f.Current = f.Current.Add(d) }

// Today returns the local calendar date of c.Now() as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(DateFormat)
}
