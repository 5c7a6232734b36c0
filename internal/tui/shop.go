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
)

// shopModel lets the user spend earned points on rewards and apply
// self-imposed punishments. Two columns, tab between them.
type shopModel struct {
	eng    *engine.Engine
	width  int
	height int

	rewards     []points.Reward
	punishments []points.Punishment
	column      int // 0 rewards, 1 punishments
	cursor      int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName *string
	formDesc *string
	formIcon *string
	formCost *string
	formKind *string
}

func newShopModel(eng *engine.Engine) shopModel {
	name, desc, icon, cost, kind := "", "", "🎁", "50", "reward"
	return shopModel{
		eng:      eng,
		formName: &name,
		formDesc: &desc,
		formIcon: &icon,
		formCost: &cost,
		formKind: &kind,
	}
}

func (s *shopModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type shopDataMsg struct {
	rewards     []points.Reward
	punishments []points.Punishment
}

func (s shopModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return shopDataMsg{
			rewards:     s.eng.Points.Rewards(),
			punishments: s.eng.Points.Punishments(),
		}
	}
}

func (s shopModel) update(msg tea.Msg) (shopModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case shopDataMsg:
		s.rewards = msg.rewards
		s.punishments = msg.punishments
		s.clampCursor()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			s.column = 1 - s.column
			s.clampCursor()
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < s.columnLen()-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.New):
			return s.showNewItemForm()
		case key.Matches(msg, keys.Delete):
			return s.removeSelected()
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Complete):
			return s.activateSelected()
		}
	}
	return s, nil
}

func (s shopModel) columnLen() int {
	if s.column == 0 {
		return len(s.rewards)
	}
	return len(s.punishments)
}

func (s *shopModel) clampCursor() {
	if n := s.columnLen(); s.cursor >= n {
		s.cursor = max(0, n-1)
	}
}

func (s shopModel) removeSelected() (shopModel, tea.Cmd) {
	if s.cursor >= s.columnLen() {
		return s, nil
	}
	if s.column == 0 {
		s.eng.Points.RemoveReward(s.rewards[s.cursor].ID)
	} else {
		s.eng.Points.RemovePunishment(s.punishments[s.cursor].ID)
	}
	return s, s.refresh()
}

// activateSelected redeems a reward or applies a punishment. Redeeming
// fails without mutation when the balance cannot cover the cost.
func (s shopModel) activateSelected() (shopModel, tea.Cmd) {
	if s.cursor >= s.columnLen() {
		return s, nil
	}

	if s.column == 0 {
		r := s.rewards[s.cursor]
		if !s.eng.Points.RedeemReward(r.ID) {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Not enough points for %s (%d needed)", r.Name, r.Cost), isError: true}
			}
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Redeemed %s for %d pts", r.Name, r.Cost)}
		})
	}

	p := s.punishments[s.cursor]
	s.eng.Points.ApplyPunishment(p.ID)
	return s, tea.Batch(s.refresh(), func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Applied %s (-%d pts)", p.Name, p.PointsPenalty)}
	})
}

func (s shopModel) showNewItemForm() (shopModel, tea.Cmd) {
	*s.formName = ""
	*s.formDesc = ""
	*s.formIcon = "🎁"
	*s.formCost = "50"
	*s.formKind = "reward"
	if s.column == 1 {
		*s.formKind = "punishment"
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Kind").
				Options(
					huh.NewOption("Reward", "reward"),
					huh.NewOption("Punishment", "punishment"),
				).Value(s.formKind),
			huh.NewInput().Title("Name").Value(s.formName),
			huh.NewInput().Title("Description").Value(s.formDesc),
			huh.NewInput().Title("Icon").Value(s.formIcon),
			huh.NewInput().Title("Point cost").Value(s.formCost),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s shopModel) updateForm(msg tea.Msg) (shopModel, tea.Cmd) {
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
		if *s.formName != "" {
			cost, _ := strconv.Atoi(*s.formCost)
			if *s.formKind == "punishment" {
				s.eng.Points.AddPunishment(*s.formName, *s.formDesc, *s.formIcon, "manual", cost)
			} else {
				s.eng.Points.AddReward(*s.formName, *s.formDesc, *s.formIcon, cost, "")
			}
		}
		return s, s.refresh()
	}

	return s, cmd
}

func (s shopModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("New Shop Item")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	_, current := s.eng.Points.Balance()
	balance := highlightStyle.Bold(true).Render(formatPoints(current) + " pts available")

	colWidth := (w - 6) / 2
	left := s.renderRewards(colWidth)
	right := s.renderPunishments(colWidth)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	controls := mutedStyle.Render("  enter: redeem/apply  n: new  d: delete  ←/→: column")

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(titleStyle.Render("Shop")+"  "+balance),
		columns,
		controls,
	)
}

func (s shopModel) renderRewards(width int) string {
	var rows []string
	rows = append(rows, successStyle.Bold(true).Render("Rewards"))

	if len(s.rewards) == 0 {
		rows = append(rows, mutedStyle.Render("  nothing here yet"))
	}
	_, current := s.eng.Points.Balance()
	for i, r := range s.rewards {
		cursor := "  "
		style := normalItemStyle
		if s.column == 0 && i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		cost := successStyle.Render(fmt.Sprintf("%d pts", r.Cost))
		if r.Cost > current {
			cost = mutedStyle.Render(fmt.Sprintf("%d pts", r.Cost))
		}
		rows = append(rows, fmt.Sprintf("%s%s %-20s %s",
			style.Render(cursor), r.Icon, truncate(r.Name, 20), cost))
	}

	panel := quadrantPanelStyle.Width(width)
	if s.column == 0 {
		panel = panel.BorderForeground(colorSuccess)
	}
	return panel.Render(strings.Join(rows, "\n"))
}

func (s shopModel) renderPunishments(width int) string {
	var rows []string
	rows = append(rows, errorStyle.Bold(true).Render("Punishments"))

	if len(s.punishments) == 0 {
		rows = append(rows, mutedStyle.Render("  nothing here yet"))
	}
	for i, p := range s.punishments {
		cursor := "  "
		style := normalItemStyle
		if s.column == 1 && i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, fmt.Sprintf("%s%s %-20s %s",
			style.Render(cursor), p.Icon, truncate(p.Name, 20),
			errorStyle.Render(fmt.Sprintf("-%d pts", p.PointsPenalty))))
	}

	panel := quadrantPanelStyle.Width(width)
	if s.column == 1 {
		panel = panel.BorderForeground(colorError)
	}
	return panel.Render(strings.Join(rows, "\n"))
}
