package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewMatrix viewState = iota
	viewHabits
	viewPomodoro
	viewShop
	viewStats
	viewSettings
)

var viewNames = []string{"Matrix", "Habits", "Pomodoro", "Shop", "Stats", "Settings"}

const viewCount = 6

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatPoints renders a point amount with thousands grouping.
func formatPoints(n int) string {
	if n < 0 {
		return "-" + formatPoints(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatPoints(n/1000) + fmt.Sprintf(",%03d", n%1000)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
