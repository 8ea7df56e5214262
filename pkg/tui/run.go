package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/cadence/pkg/planner"
	"github.com/stefanpenner/cadence/pkg/task"
)

// Subscriber delivers fresh task listings whenever the store changes.
type Subscriber interface {
	Subscribe(fn func([]*task.Task, error)) (func(), error)
}

// Run starts the TUI in the alternate screen and feeds it store snapshots
// until the user quits.
func Run(ctrl *planner.Controller, sub Subscriber, opts Options) error {
	p := tea.NewProgram(NewModel(ctrl, opts), tea.WithAltScreen())

	stop, err := sub.Subscribe(func(tasks []*task.Task, err error) {
		p.Send(SnapshotMsg{Tasks: tasks, Err: err})
	})
	if err != nil {
		return err
	}
	defer stop()

	_, err = p.Run()
	return err
}
