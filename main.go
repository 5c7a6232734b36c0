package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"momentum/internal/clock"
	"momentum/internal/engine"
	"momentum/internal/storage"
	"momentum/internal/tui"
)

func main() {
	dbPath, err := storage.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	backend, err := storage.OpenSQLite(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(backend, clock.System{})
	defer eng.Close()

	app := tui.NewApp(eng)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
