package store

import "errors"

var (
	ErrNotFound  = errors.New("task not found")
	ErrExists    = errors.New("task already exists")
	ErrInvalidID = errors.New("invalid task id")
)
