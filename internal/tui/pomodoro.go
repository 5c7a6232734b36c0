package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"momentum/internal/engine"
	"momentum/internal/pomodoro"
	"momentum/internal/task"
)

var modeNames = map[pomodoro.Mode]string{
	pomodoro.Focus:      "FOCUS",
	pomodoro.ShortBreak: "SHORT BREAK",
	pomodoro.LongBreak:  "LONG BREAK",
}

// pomodoroModel drives the shared timer state machine from the TUI tick.
// The machine itself never chains modes; this model consults autoStartNext
// and the long-break interval to decide what happens when a period ends.
type pomodoroModel struct {
	eng    *engine.Engine
	width  int
	height int

	sessionID string // in-flight history session, empty when none
}

func newPomodoroModel(eng *engine.Engine) pomodoroModel {
	return pomodoroModel{eng: eng}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	t := p.eng.Timer

	switch msg := msg.(type) {
	case tickMsg:
		wasRunning := t.IsRunning()
		t.Tick()
		if wasRunning && !t.IsRunning() && t.TimeRemaining() == 0 {
			return p.finishPeriod()
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Complete):
			return p.toggle()
		case msg.String() == "f":
			return p.switchMode(pomodoro.Focus)
		case msg.String() == "b":
			return p.switchMode(pomodoro.ShortBreak)
		case msg.String() == "l":
			return p.switchMode(pomodoro.LongBreak)
		case msg.String() == "r":
			return p.resetCurrent()
		case msg.String() == "t":
			p.cycleTask()
			return p, nil
		}
	}
	return p, nil
}

func (p pomodoroModel) toggle() (pomodoroModel, tea.Cmd) {
	t := p.eng.Timer
	if t.IsRunning() {
		t.SetRunning(false)
		return p, nil
	}
	if t.TimeRemaining() == 0 {
		t.Reset(p.duration(t.Mode()))
	}
	if p.sessionID == "" {
		s := p.eng.Sessions.Start(t.CurrentTask(), t.Mode(), p.duration(t.Mode()))
		p.sessionID = s.ID
	}
	t.SetRunning(true)
	return p, nil
}

// switchMode sets the mode and resets the clock in the same motion.
// SetMode alone leaves the previous countdown in place.
func (p pomodoroModel) switchMode(m pomodoro.Mode) (pomodoroModel, tea.Cmd) {
	p.abandonSession()
	t := p.eng.Timer
	t.SetMode(m)
	t.Reset(p.duration(m))
	return p, nil
}

func (p pomodoroModel) resetCurrent() (pomodoroModel, tea.Cmd) {
	p.abandonSession()
	t := p.eng.Timer
	t.Reset(p.duration(t.Mode()))
	return p, nil
}

func (p *pomodoroModel) abandonSession() {
	if p.sessionID == "" {
		return
	}
	t := p.eng.Timer
	elapsed := p.duration(t.Mode()) - t.TimeRemaining()
	p.eng.Sessions.Finish(p.sessionID, elapsed, false)
	p.sessionID = ""
}

// finishPeriod runs once when the countdown hits zero: close the session,
// credit the linked task, and chain into the next period if configured.
func (p pomodoroModel) finishPeriod() (pomodoroModel, tea.Cmd) {
	t := p.eng.Timer
	cfg := p.eng.Config.Get().Pomodoro
	mode := t.Mode()

	if p.sessionID != "" {
		p.eng.Sessions.Finish(p.sessionID, p.duration(mode), true)
		p.sessionID = ""
	}

	text := "Break over"
	if mode == pomodoro.Focus {
		text = "Focus session complete!"
		if taskID := t.CurrentTask(); taskID != "" {
			p.eng.Tasks.IncrementPomodoros(taskID)
		}
	}
	if cfg.SoundEnabled {
		text += " \a"
	}

	var cmds []tea.Cmd
	cmds = append(cmds, func() tea.Msg { return statusMsg{text: text} })

	if cfg.AutoStartNext {
		next := pomodoro.Focus
		if mode == pomodoro.Focus {
			next = pomodoro.ShortBreak
			if cfg.LongBreakInterval > 0 && t.CompletedToday()%cfg.LongBreakInterval == 0 {
				next = pomodoro.LongBreak
			}
		}
		t.SetMode(next)
		t.Reset(p.duration(next))
		s := p.eng.Sessions.Start(t.CurrentTask(), next, p.duration(next))
		p.sessionID = s.ID
		t.SetRunning(true)
	}

	return p, tea.Batch(cmds...)
}

// cycleTask links the timer to the next unfinished task on today's board.
func (p pomodoroModel) cycleTask() {
	var open []task.Task
	for _, t := range p.eng.Tasks.Today() {
		if t.Status != task.StatusDone && t.Status != task.StatusCancelled {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		p.eng.Timer.SetCurrentTask("")
		return
	}
	current := p.eng.Timer.CurrentTask()
	next := 0
	for i, t := range open {
		if t.ID == current {
			next = (i + 1) % (len(open) + 1)
			break
		}
	}
	if next == len(open) {
		p.eng.Timer.SetCurrentTask("") // unlink after the last task
		return
	}
	p.eng.Timer.SetCurrentTask(open[next].ID)
}

func (p pomodoroModel) duration(m pomodoro.Mode) int {
	return p.eng.Config.Get().Pomodoro.DurationSeconds(m)
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	t := p.eng.Timer
	mode := t.Mode()

	title := titleStyle.Render("Pomodoro")

	modeStyle := accentStyle
	switch mode {
	case pomodoro.ShortBreak:
		modeStyle = successStyle
	case pomodoro.LongBreak:
		modeStyle = highlightStyle
	}

	display := timerStyle.Width(w - 6).Render(t.Display())
	if t.IsRunning() {
		display = modeStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(t.Display())
	}
	label := modeStyle.Bold(true).Render(modeNames[mode])

	bar := p.renderProgressBar(w - 10)

	taskLine := mutedStyle.Render("No task linked (press t)")
	if id := t.CurrentTask(); id != "" {
		if linked, ok := p.eng.Tasks.Get(id); ok {
			taskLine = mutedStyle.Render("Task: ") + normalItemStyle.Render(truncate(linked.Title, w-14))
		} else {
			taskLine = mutedStyle.Render("Task: (gone)")
		}
	}

	sessions := mutedStyle.Render("No focus sessions yet today")
	if n := t.CompletedToday(); n > 0 {
		dots := strings.Repeat(successStyle.Render("● "), min(n, 12))
		sessions = dots + mutedStyle.Render(fmt.Sprintf(" %d today", n))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		display,
		label,
		"",
		bar,
		"",
		taskLine,
		sessions,
	)

	controls := mutedStyle.Render("s: start/stop  f/b/l: mode  r: reset  t: link task")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderProgressBar(width int) string {
	if width < 10 {
		width = 10
	}
	frac := p.eng.Timer.Progress()
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
