package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"momentum/internal/clock"
	"momentum/internal/engine"
	"momentum/internal/level"
)

// dayStat is one bar of the weekly chart.
type dayStat struct {
	date     string
	label    string
	focus    int // completed focus sessions
	habits   int // habit check-ins
	tasks    int // tasks completed that day
}

type statsModel struct {
	eng    *engine.Engine
	width  int
	height int

	offset int // 7-day blocks back from today (0 = current)
	days   []dayStat
	chart  barchart.Model
}

func newStatsModel(eng *engine.Engine) statsModel {
	return statsModel{
		eng:   eng,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	days []dayStat
}

func (s statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return statsDataMsg{days: s.collect()}
	}
}

// collect builds one stat row per calendar day in the visible week.
func (s statsModel) collect() []dayStat {
	now := s.eng.Clock.Now()
	end := now.AddDate(0, 0, -7*s.offset)

	days := make([]dayStat, 0, 7)
	for i := 6; i >= 0; i-- {
		d := end.AddDate(0, 0, -i)
		date := d.Format(clock.DateFormat)

		st := dayStat{
			date:  date,
			label: d.Format("Mon 02"),
			focus: s.eng.Sessions.CompletedFocusOn(date),
		}
		for _, t := range s.eng.Tasks.ForDate(date) {
			if t.CompletedAt != nil {
				st.tasks++
			}
		}
		for _, h := range s.eng.Habits.List() {
			if s.eng.Habits.CompletedOn(h.ID, date) {
				st.habits++
			}
		}
		days = append(days, st)
	}
	return days
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.days = msg.days
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			s.offset++
			return s, s.refresh()
		case key.Matches(msg, keys.Right):
			if s.offset > 0 {
				s.offset--
			}
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range s.days {
		values := []barchart.BarValue{
			{Name: "focus", Value: float64(d.focus), Style: lipgloss.NewStyle().Foreground(colorPrimary)},
			{Name: "tasks", Value: float64(d.tasks), Style: lipgloss.NewStyle().Foreground(colorSuccess)},
			{Name: "habits", Value: float64(d.habits), Style: lipgloss.NewStyle().Foreground(colorWarning)},
		}
		bars = append(bars, barchart.BarData{
			Label:  d.label,
			Values: values,
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	u := s.eng.Points.UserLevel()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		s.renderLevelBadge(u),
	)

	chartView := s.chart.View()

	legend := "  " + strings.Join([]string{
		lipgloss.NewStyle().Foreground(colorPrimary).Render("●") + " focus sessions",
		lipgloss.NewStyle().Foreground(colorSuccess).Render("●") + " tasks done",
		lipgloss.NewStyle().Foreground(colorWarning).Render("●") + " habit check-ins",
	}, "  ")

	table := s.renderWeekTable(w)
	progress := s.renderLevelProgress(u, w-8)
	nav := mutedStyle.Render("  ←/→: earlier/later week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", progress, "", chartView, "", legend, "", table, "", nav,
		),
	)
}

func (s statsModel) renderLevelBadge(u level.UserLevel) string {
	return highlightStyle.Bold(true).Render(fmt.Sprintf("Lv %d %s", u.Level, level.Title(u.Level))) +
		mutedStyle.Render(fmt.Sprintf("  %s pts lifetime", formatPoints(u.TotalPoints)))
}

func (s statsModel) renderLevelProgress(u level.UserLevel, width int) string {
	if width < 10 {
		width = 10
	}
	frac := float64(level.Progress(u)) / 100.0
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	bar := highlightStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("  %s %s", bar,
		mutedStyle.Render(fmt.Sprintf("%d/%d to next level", u.CurrentPoints, u.CurrentPoints+u.PointsToNextLevel)))
}

func (s statsModel) renderWeekTable(w int) string {
	if len(s.days) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s %8s %8s", "Date", "Focus", "Tasks", "Habits")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 40))))

	var totalFocus, totalTasks, totalHabits int
	for _, d := range s.days {
		rows = append(rows, fmt.Sprintf("  %-12s %8d %8d %8d", d.date, d.focus, d.tasks, d.habits))
		totalFocus += d.focus
		totalTasks += d.tasks
		totalHabits += d.habits
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 40))))
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  %-12s %8d %8d %8d", "Total", totalFocus, totalTasks, totalHabits)))

	return strings.Join(rows, "\n")
}
