package planner

import "errors"

var (
	ErrUnknownTask = errors.New("unknown task")
	ErrTooDeep     = errors.New("tasks nest at most three levels")
	ErrNoDays      = errors.New("custom recurrence needs at least one weekday")
	ErrCycle       = errors.New("a task cannot be nested inside itself")
)
