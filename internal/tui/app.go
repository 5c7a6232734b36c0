package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"momentum/internal/engine"
	"momentum/internal/export"
	"momentum/internal/level"
)

// App is the root Bubble Tea model.
type App struct {
	eng    *engine.Engine
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	matrix   matrixModel
	habits   habitsModel
	pomodoro pomodoroModel
	shop     shopModel
	stats    statsModel
	settings settingsModel

	help        help.Model
	status      string
	statusIsErr bool
}

func NewApp(eng *engine.Engine) App {
	h := help.New()
	h.ShowAll = false

	return App{
		eng:        eng,
		activeView: viewMatrix,
		matrix:     newMatrixModel(eng),
		habits:     newHabitsModel(eng),
		pomodoro:   newPomodoroModel(eng),
		shop:       newShopModel(eng),
		stats:      newStatsModel(eng),
		settings:   newSettingsModel(eng),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.matrix.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.matrix.setSize(a.width, contentHeight)
		a.habits.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.shop.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.eng.Flush()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewMatrix
			return a, a.matrix.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHabits
			return a, a.habits.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPomodoro
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewShop
			return a, a.shop.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewCount
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Always route ticks to the pomodoro timer, whichever view is up
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusIsErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewMatrix:
		a.matrix, cmd = a.matrix.update(msg)
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewShop:
		a.shop, cmd = a.shop.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewMatrix:
		return a.matrix.formActive
	case viewHabits:
		return a.habits.formActive
	case viewShop:
		return a.shop.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewMatrix:
		return a.matrix.refresh()
	case viewHabits:
		return a.habits.refresh()
	case viewShop:
		return a.shop.refresh()
	case viewStats:
		return a.stats.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewMatrix:
		content = a.matrix.view()
	case viewHabits:
		content = a.habits.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewShop:
		content = a.shop.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("momentum")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusIsErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Level and balance indicator
	u := a.eng.Points.UserLevel()
	_, current := a.eng.Points.Balance()
	levelInfo := highlightStyle.Render(fmt.Sprintf(" Lv%d %s", u.Level, level.Title(u.Level))) +
		successStyle.Render(fmt.Sprintf(" %s pts", formatPoints(current)))

	// Timer indicator when the pomodoro is running off-screen
	timerInfo := ""
	if a.eng.Timer.IsRunning() {
		timerInfo = accentStyle.Render(" ⏱ " + a.eng.Timer.Display())
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + levelInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"Tasks CSV", "Habits CSV", "Everything JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 2 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		tasks := a.eng.Tasks.List()
		habits := a.eng.Habits.List()

		home, _ := os.UserHomeDir()
		dateStr := a.eng.Clock.Now().Format("2006-01-02")

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("momentum-tasks-%s.csv", dateStr))
			err = export.TasksToCSV(tasks, path)
		case 1:
			path = filepath.Join(home, fmt.Sprintf("momentum-habits-%s.csv", dateStr))
			err = export.HabitsToCSV(habits, path)
		default:
			path = filepath.Join(home, fmt.Sprintf("momentum-%s.json", dateStr))
			err = export.ToJSON(tasks, habits, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		return exportDoneMsg{path: path}
	}
}
