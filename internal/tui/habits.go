package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"momentum/internal/clock"
	"momentum/internal/engine"
	"momentum/internal/habit"
	"momentum/internal/points"
)

var habitIcons = []string{"✦", "☀", "♥", "✎", "♪", "⚑", "☕", "⚡"}

type habitsModel struct {
	eng    *engine.Engine
	width  int
	height int

	habits       []habit.Habit
	cursor       int
	showInactive bool

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName      *string
	formIcon      *string
	formTarget    *string
	formUnit      *string
	formFrequency *string
	formDays      *[]int
	formPoints    *string
}

func newHabitsModel(eng *engine.Engine) habitsModel {
	name, icon, target, unit := "", habitIcons[0], "1", "times"
	freq, pts := string(habit.Daily), "5"
	days := []int{}
	return habitsModel{
		eng:           eng,
		formName:      &name,
		formIcon:      &icon,
		formTarget:    &target,
		formUnit:      &unit,
		formFrequency: &freq,
		formDays:      &days,
		formPoints:    &pts,
	}
}

func (h *habitsModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

type habitsDataMsg struct {
	habits []habit.Habit
}

func (h habitsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		if h.showInactive {
			return habitsDataMsg{habits: h.eng.Habits.List()}
		}
		return habitsDataMsg{habits: h.eng.Habits.Active()}
	}
}

func (h habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		h.habits = msg.habits
		if h.cursor >= len(h.habits) {
			h.cursor = max(0, len(h.habits)-1)
		}
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.habits)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.New):
			return h.showNewHabitForm()
		case key.Matches(msg, keys.Complete), key.Matches(msg, keys.Enter):
			return h.checkIn()
		case key.Matches(msg, keys.Delete):
			// Retire, don't destroy: the log stays valid.
			if h.cursor < len(h.habits) {
				active := false
				h.eng.Habits.Update(h.habits[h.cursor].ID, habit.Patch{IsActive: &active})
				return h, h.refresh()
			}
		case msg.String() == "a":
			h.showInactive = !h.showInactive
			return h, h.refresh()
		}
	}
	return h, nil
}

// checkIn logs today's completion, recomputes the streak, and credits the
// habit's reward. Checking in twice on the same day is idempotent and does
// not double-award.
func (h habitsModel) checkIn() (habitsModel, tea.Cmd) {
	if h.cursor >= len(h.habits) {
		return h, nil
	}
	hb := h.habits[h.cursor]
	today := clock.Today(h.eng.Clock)

	if h.eng.Habits.CompletedOn(hb.ID, today) {
		return h, func() tea.Msg {
			return statusMsg{text: "Already checked in today"}
		}
	}

	h.eng.Habits.LogCompletion(hb.ID, today, hb.TargetValue, "")
	h.eng.Habits.ApplyStreak(hb.ID, today)
	if hb.PointsReward > 0 {
		h.eng.Points.AddPoints(hb.PointsReward, points.TypeHabitComplete, hb.ID, hb.Name)
	}

	text := fmt.Sprintf("%s checked in! +%d pts", hb.Name, hb.PointsReward)
	if after, ok := h.eng.Habits.Get(hb.ID); ok {
		if bonus := streakBonus(after.CurrentStreak); bonus > 0 {
			h.eng.Points.AddPoints(bonus, points.TypeStreakBonus, hb.ID,
				fmt.Sprintf("%d-day streak: %s", after.CurrentStreak, hb.Name))
			text = fmt.Sprintf("%s  🔥 %d-day streak, +%d bonus", text, after.CurrentStreak, bonus)
		}
	}

	return h, tea.Batch(h.refresh(), func() tea.Msg {
		return statusMsg{text: text}
	})
}

// streakBonus pays out at weekly streak milestones, scaling with the run.
func streakBonus(streak int) int {
	if streak <= 0 || streak%7 != 0 {
		return 0
	}
	return 10 * (streak / 7)
}

func (h habitsModel) showNewHabitForm() (habitsModel, tea.Cmd) {
	*h.formName = ""
	*h.formIcon = habitIcons[0]
	*h.formTarget = "1"
	*h.formUnit = "times"
	*h.formFrequency = string(habit.Daily)
	*h.formDays = nil
	*h.formPoints = "5"

	iconOptions := make([]huh.Option[string], len(habitIcons))
	for i, ic := range habitIcons {
		iconOptions[i] = huh.NewOption(ic, ic)
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(h.formName),
			huh.NewSelect[string]().Title("Icon").Options(iconOptions...).Value(h.formIcon),
			huh.NewInput().Title("Target value").Value(h.formTarget),
			huh.NewInput().Title("Unit").Value(h.formUnit),
			huh.NewSelect[string]().Title("Frequency").
				Options(
					huh.NewOption("Every day", string(habit.Daily)),
					huh.NewOption("Weekdays", string(habit.Weekdays)),
					huh.NewOption("Custom days", string(habit.Custom)),
				).Value(h.formFrequency),
			huh.NewMultiSelect[int]().Title("Days (custom frequency)").
				Options(
					huh.NewOption("Mon", int(time.Monday)),
					huh.NewOption("Tue", int(time.Tuesday)),
					huh.NewOption("Wed", int(time.Wednesday)),
					huh.NewOption("Thu", int(time.Thursday)),
					huh.NewOption("Fri", int(time.Friday)),
					huh.NewOption("Sat", int(time.Saturday)),
					huh.NewOption("Sun", int(time.Sunday)),
				).Value(h.formDays),
			huh.NewInput().Title("Points reward").Value(h.formPoints),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		h.submitForm()
		return h, h.refresh()
	}

	return h, cmd
}

// submitForm creates the habit described by the form fields. A custom
// frequency with no days selected would never be scheduled, so it falls
// back to daily.
func (h habitsModel) submitForm() {
	if *h.formName == "" {
		return
	}
	target, _ := strconv.Atoi(*h.formTarget)
	pts, _ := strconv.Atoi(*h.formPoints)
	freq := habit.Frequency(*h.formFrequency)
	days := *h.formDays
	if freq == habit.Custom && len(days) == 0 {
		freq = habit.Daily
	}
	if freq != habit.Custom {
		days = nil
	}
	h.eng.Habits.Add(habit.Habit{
		Name:         *h.formName,
		Icon:         *h.formIcon,
		TargetValue:  target,
		Unit:         *h.formUnit,
		Frequency:    freq,
		CustomDays:   days,
		PointsReward: pts,
	})
}

func (h habitsModel) view() string {
	w := h.width - 4

	if h.formActive && h.form != nil {
		title := titleStyle.Render("New Habit")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Habits")
	if h.showInactive {
		title += mutedStyle.Render("  (including retired)")
	}

	if len(h.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	today := clock.Today(h.eng.Clock)
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, hb := range h.habits {
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := mutedStyle.Render("○")
		if h.eng.Habits.CompletedOn(hb.ID, today) {
			check = successStyle.Render("●")
		}
		streak := highlightStyle.Render(fmt.Sprintf("🔥 %d", hb.CurrentStreak))
		best := mutedStyle.Render(fmt.Sprintf("best %d", hb.LongestStreak))
		retired := ""
		if !hb.IsActive {
			retired = mutedStyle.Render(" [retired]")
		}

		rows = append(rows, fmt.Sprintf("%s%s %s %-24s %s  %s%s",
			style.Render(cursor), check, hb.Icon, truncate(hb.Name, 24), streak, best, retired))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  space: check in  d: retire  a: toggle retired"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
