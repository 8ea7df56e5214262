package task

import "errors"

var (
	ErrSessionRunning = errors.New("session already running")
	ErrNoSession      = errors.New("no running session")
	ErrEmptyTitle     = errors.New("title cannot be empty")
)
