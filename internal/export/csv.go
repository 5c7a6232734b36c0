package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"momentum/internal/habit"
	"momentum/internal/task"
)

func TasksToCSV(tasks []task.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Quadrant", "Status", "Date", "Pomodoros", "Points", "Completed At", "Created At"}); err != nil {
		return err
	}

	for _, t := range tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			t.ID,
			t.Title,
			string(t.Quadrant),
			string(t.Status),
			t.Date,
			fmt.Sprintf("%d/%d", t.CompletedPomodoros, t.EstimatedPomodoros),
			fmt.Sprintf("%d", t.PointsReward),
			completedAt,
			t.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func HabitsToCSV(habits []habit.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Name", "Frequency", "Target", "Unit", "Current Streak", "Longest Streak", "Active"}); err != nil {
		return err
	}

	for _, h := range habits {
		row := []string{
			h.ID,
			h.Name,
			frequencyLabel(h),
			fmt.Sprintf("%d", h.TargetValue),
			h.Unit,
			fmt.Sprintf("%d", h.CurrentStreak),
			fmt.Sprintf("%d", h.LongestStreak),
			fmt.Sprintf("%t", h.IsActive),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func frequencyLabel(h habit.Habit) string {
	if h.Frequency != habit.Custom {
		return string(h.Frequency)
	}
	days := make([]string, len(h.CustomDays))
	for i, d := range h.CustomDays {
		days[i] = time.Weekday(d).String()[:3]
	}
	return "custom:" + strings.Join(days, "+")
}
