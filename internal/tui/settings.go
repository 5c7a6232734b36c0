package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"momentum/internal/config"
	"momentum/internal/engine"
)

type settingsModel struct {
	eng    *engine.Engine
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	userName      *string
	theme         *string
	focusMin      *string
	shortMin      *string
	longMin       *string
	longInterval  *string
	autoStartNext *bool
	soundEnabled  *bool
}

func newSettingsModel(eng *engine.Engine) settingsModel {
	name, theme := "", ""
	fm, sm, lm, li := "", "", "", ""
	auto, sound := false, false
	return settingsModel{
		eng:           eng,
		userName:      &name,
		theme:         &theme,
		focusMin:      &fm,
		shortMin:      &sm,
		longMin:       &lm,
		longInterval:  &li,
		autoStartNext: &auto,
		soundEnabled:  &sound,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := s.eng.Config.Get()
	*s.userName = cfg.UserName
	*s.theme = cfg.Theme
	*s.focusMin = strconv.Itoa(cfg.Pomodoro.FocusDuration)
	*s.shortMin = strconv.Itoa(cfg.Pomodoro.ShortBreakDuration)
	*s.longMin = strconv.Itoa(cfg.Pomodoro.LongBreakDuration)
	*s.longInterval = strconv.Itoa(cfg.Pomodoro.LongBreakInterval)
	*s.autoStartNext = cfg.Pomodoro.AutoStartNext
	*s.soundEnabled = cfg.Pomodoro.SoundEnabled

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your name").Value(s.userName),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).Value(s.theme),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.focusMin),
			huh.NewInput().Title("Short break (min)").Value(s.shortMin),
			huh.NewInput().Title("Long break (min)").Value(s.longMin),
			huh.NewInput().Title("Focus sessions before long break").Value(s.longInterval),
			huh.NewConfirm().Title("Auto-start next period").Value(s.autoStartNext),
			huh.NewConfirm().Title("Sound on completion").Value(s.soundEnabled),
		).Title("Pomodoro"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.save()
		return s, nil
	}

	return s, cmd
}

// save writes the form back through the config store. Invalid numbers fall
// back to the previous values rather than zeroing a duration.
func (s settingsModel) save() {
	cfg := s.eng.Config.Get()

	s.eng.Config.SetUserName(*s.userName)
	s.eng.Config.SetTheme(*s.theme)

	p := config.Pomodoro{
		FocusDuration:      atoiOr(*s.focusMin, cfg.Pomodoro.FocusDuration),
		ShortBreakDuration: atoiOr(*s.shortMin, cfg.Pomodoro.ShortBreakDuration),
		LongBreakDuration:  atoiOr(*s.longMin, cfg.Pomodoro.LongBreakDuration),
		LongBreakInterval:  atoiOr(*s.longInterval, cfg.Pomodoro.LongBreakInterval),
		AutoStartNext:      *s.autoStartNext,
		SoundEnabled:       *s.soundEnabled,
	}
	s.eng.Config.SetPomodoro(p)
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cfg := s.eng.Config.Get()

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s",
			lipgloss.NewStyle().Width(28).Render(label),
			highlightStyle.Render(value))
	}
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	name := cfg.UserName
	if name == "" {
		name = "(not set)"
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		row("Name", name),
		row("Theme", cfg.Theme),
		"",
		row("Focus", fmt.Sprintf("%d min", cfg.Pomodoro.FocusDuration)),
		row("Short break", fmt.Sprintf("%d min", cfg.Pomodoro.ShortBreakDuration)),
		row("Long break", fmt.Sprintf("%d min", cfg.Pomodoro.LongBreakDuration)),
		row("Long break interval", fmt.Sprintf("every %d sessions", cfg.Pomodoro.LongBreakInterval)),
		row("Auto-start next", onOff(cfg.Pomodoro.AutoStartNext)),
		row("Sound", onOff(cfg.Pomodoro.SoundEnabled)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
