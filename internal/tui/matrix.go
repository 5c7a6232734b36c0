package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"momentum/internal/engine"
	"momentum/internal/points"
	"momentum/internal/task"
)

// matrixModel renders today's tasks as a four-quadrant Eisenhower board.
// Membership is recomputed from the clock on every refresh, so the board
// empties itself of yesterday's tasks at midnight without any write.
type matrixModel struct {
	eng    *engine.Engine
	width  int
	height int

	tasks    []task.Task // today's tasks, sorted
	quadrant int         // selected quadrant, index into task.Quadrants
	cursor   int         // selection within the quadrant

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formQuadrant *string
	formEstimate *string
	formPoints   *string
}

func newMatrixModel(eng *engine.Engine) matrixModel {
	title, quadrant, estimate, pts := "", string(task.UrgentImportant), "1", "10"
	return matrixModel{
		eng:          eng,
		formTitle:    &title,
		formQuadrant: &quadrant,
		formEstimate: &estimate,
		formPoints:   &pts,
	}
}

func (m *matrixModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []task.Task
}

func (m matrixModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return tasksDataMsg{tasks: m.eng.Tasks.Today()}
	}
}

func (m matrixModel) inQuadrant(q task.Quadrant) []task.Task {
	var out []task.Task
	for _, t := range m.tasks {
		if t.Quadrant == q {
			out = append(out, t)
		}
	}
	return out
}

func (m matrixModel) selected() (task.Task, bool) {
	tasks := m.inQuadrant(task.Quadrants[m.quadrant])
	if m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m matrixModel) update(msg tea.Msg) (matrixModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.quadrant > 0 {
				m.quadrant--
				m.cursor = 0
			}
		case key.Matches(msg, keys.Right):
			if m.quadrant < len(task.Quadrants)-1 {
				m.quadrant++
				m.cursor = 0
			}
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			n := len(m.inQuadrant(task.Quadrants[m.quadrant]))
			if m.cursor < n-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewTaskForm()
		case key.Matches(msg, keys.Delete):
			if t, ok := m.selected(); ok {
				m.eng.Tasks.Remove(t.ID)
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Complete):
			return m.cycleStatus()
		case key.Matches(msg, keys.Move):
			if t, ok := m.selected(); ok {
				next := task.Quadrants[(m.quadrantIndex(t.Quadrant)+1)%len(task.Quadrants)]
				m.eng.Tasks.Move(t.ID, next)
				return m, m.refresh()
			}
		case msg.String() == "[":
			return m.reorder(-1)
		case msg.String() == "]":
			return m.reorder(1)
		}
	}
	return m, nil
}

func (m *matrixModel) clampCursor() {
	n := len(m.inQuadrant(task.Quadrants[m.quadrant]))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m matrixModel) quadrantIndex(q task.Quadrant) int {
	for i, qq := range task.Quadrants {
		if qq == q {
			return i
		}
	}
	return 0
}

// cycleStatus walks todo → in_progress → done → todo. Completing a task
// credits its reward to the ledger; cycling back out of done does not claw
// points back.
func (m matrixModel) cycleStatus() (matrixModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}

	var next task.Status
	switch t.Status {
	case task.StatusTodo:
		next = task.StatusInProgress
	case task.StatusInProgress:
		next = task.StatusDone
	default:
		next = task.StatusTodo
	}

	m.eng.Tasks.SetStatus(t.ID, next)

	if next == task.StatusDone && t.PointsReward > 0 {
		m.eng.Points.AddPoints(t.PointsReward, points.TypeTaskComplete, t.ID, t.Title)
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Done! +%d pts", t.PointsReward)}
		})
	}
	return m, m.refresh()
}

// reorder nudges the selected task past its neighbor by assigning a sort
// key just beyond it. Sibling keys are never rewritten.
func (m matrixModel) reorder(dir int) (matrixModel, tea.Cmd) {
	tasks := m.inQuadrant(task.Quadrants[m.quadrant])
	i := m.cursor
	j := i + dir
	if i >= len(tasks) || j < 0 || j >= len(tasks) {
		return m, nil
	}
	m.eng.Tasks.Reorder(tasks[i].ID, tasks[j].Order+float64(dir))
	if dir < 0 && m.cursor > 0 {
		m.cursor--
	} else if dir > 0 {
		m.cursor++
	}
	return m, m.refresh()
}

func (m matrixModel) showNewTaskForm() (matrixModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formQuadrant = string(task.Quadrants[m.quadrant])
	*m.formEstimate = "1"
	*m.formPoints = "10"

	quadOptions := make([]huh.Option[string], len(task.Quadrants))
	for i, q := range task.Quadrants {
		quadOptions[i] = huh.NewOption(quadrantLabels[q], string(q))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewSelect[string]().Title("Quadrant").Options(quadOptions...).Value(m.formQuadrant),
			huh.NewInput().Title("Estimated pomodoros").Value(m.formEstimate),
			huh.NewInput().Title("Points reward").Value(m.formPoints),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m matrixModel) updateForm(msg tea.Msg) (matrixModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if *m.formTitle != "" {
			estimate, _ := strconv.Atoi(*m.formEstimate)
			pts, _ := strconv.Atoi(*m.formPoints)
			m.eng.Tasks.Add(task.Task{
				Title:              *m.formTitle,
				Quadrant:           task.Quadrant(*m.formQuadrant),
				EstimatedPomodoros: estimate,
				PointsReward:       pts,
			})
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m matrixModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	quadWidth := (m.width - 8) / 2
	if quadWidth < 24 {
		quadWidth = 24
	}

	panels := make([]string, len(task.Quadrants))
	for i, q := range task.Quadrants {
		panels[i] = m.renderQuadrant(q, i, quadWidth)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, panels[0], panels[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, panels[2], panels[3])

	done := m.eng.Tasks.DoneTodayCount()
	summary := mutedStyle.Render(fmt.Sprintf("  %d/%d done today", done, len(m.tasks)))
	controls := mutedStyle.Render("  n: new  space: status  m: move  [/]: reorder  d: delete  ←/→: quadrant")

	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, summary, controls)
}

func (m matrixModel) renderQuadrant(q task.Quadrant, idx, width int) string {
	color := quadrantColors[q]
	header := lipgloss.NewStyle().Bold(true).Foreground(color).Render(quadrantLabels[q])

	tasks := m.inQuadrant(q)
	var rows []string
	rows = append(rows, header)

	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  —"))
	}
	for i, t := range tasks {
		cursor := "  "
		style := normalItemStyle
		if idx == m.quadrant && i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+statusIcon(t.Status)+" "+truncate(t.Title, width-16))+
			mutedStyle.Render(fmt.Sprintf(" %d/%d", t.CompletedPomodoros, t.EstimatedPomodoros)))
	}

	panel := quadrantPanelStyle.Width(width)
	if idx == m.quadrant {
		panel = panel.BorderForeground(color)
	}
	return panel.Render(strings.Join(rows, "\n"))
}

func statusIcon(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return warningStyle.Render("◐")
	case task.StatusDone:
		return successStyle.Render("●")
	case task.StatusCancelled:
		return mutedStyle.Render("✕")
	default:
		return mutedStyle.Render("○")
	}
}
