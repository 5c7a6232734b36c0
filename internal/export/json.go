package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"momentum/internal/habit"
	"momentum/internal/task"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	TaskCount  int           `json:"task_count"`
	HabitCount int           `json:"habit_count"`
	Tasks      []task.Task   `json:"tasks"`
	Habits     []habit.Habit `json:"habits"`
}

// ToJSON writes a combined snapshot of tasks and habits. Entities marshal
// with their store field names, so an export doubles as a readable backup.
func ToJSON(tasks []task.Task, habits []habit.Habit, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		TaskCount:  len(tasks),
		HabitCount: len(habits),
		Tasks:      tasks,
		Habits:     habits,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
