// Package task defines the planner's task model, its hierarchy and the
// completion transitions that roll recurring tasks forward.
package task

import (
	"cmp"
	"slices"
	"time"

	"github.com/stefanpenner/cadence/pkg/schedule"
)

// Status represents the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Kind discriminates ordinary tasks from folders and system pseudo-tasks.
type Kind string

const (
	KindTask    Kind = "task"
	KindFolder  Kind = "folder"
	KindNote    Kind = "note"
	KindComment Kind = "comment" // timeline comment
)

// Session is one time-tracking interval. A nil End means it is still running.
type Session struct {
	Start time.Time  `yaml:"start" json:"start"`
	End   *time.Time `yaml:"end,omitempty" json:"end,omitempty"`
}

// IsOpen reports whether the session has not been closed yet.
func (s Session) IsOpen() bool {
	return s.End == nil
}

// Pomodoro holds per-task timer preferences in minutes. Presentation only.
type Pomodoro struct {
	Work  int `yaml:"work,omitempty" json:"work,omitempty"`
	Break int `yaml:"break,omitempty" json:"break,omitempty"`
}

// Task is a single planner entry loaded from a task file.
type Task struct {
	// Frontmatter fields
	ID             string         `yaml:"id" json:"id"`
	Title          string         `yaml:"title" json:"title"`
	Kind           Kind           `yaml:"kind,omitempty" json:"kind,omitempty"`
	Status         Status         `yaml:"status" json:"status"`
	Date           *schedule.Date `yaml:"date,omitempty" json:"date,omitempty"`
	EndDate        *schedule.Date `yaml:"end_date,omitempty" json:"endDate,omitempty"`
	Recurrence     schedule.Kind  `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	RecurrenceDays []time.Weekday `yaml:"recurrence_days,omitempty" json:"recurrenceDays,omitempty"`
	ParentID       string         `yaml:"parent,omitempty" json:"parentId,omitempty"`
	Order          float64        `yaml:"order" json:"order"`
	Tags           []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Sessions       []Session      `yaml:"sessions,omitempty" json:"sessions,omitempty"`
	Color          string         `yaml:"color,omitempty" json:"color,omitempty"`
	Icon           string         `yaml:"icon,omitempty" json:"icon,omitempty"`
	Pomodoro       *Pomodoro      `yaml:"pomodoro,omitempty" json:"pomodoro,omitempty"`
	Created        time.Time      `yaml:"created" json:"created"`
	Updated        time.Time      `yaml:"updated" json:"updated"`

	// Parsed from markdown body
	Notes string `yaml:"-" json:"notes,omitempty"`

	// Filesystem metadata (not serialized to YAML)
	FilePath string `yaml:"-" json:"-"`
}

// IsCompleted returns true if the task is marked completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsFolder returns true for folder tasks. Folders never take part in date matching.
func (t *Task) IsFolder() bool {
	return t.Kind == KindFolder
}

// IsSystem returns true for notes and timeline comments.
func (t *Task) IsSystem() bool {
	return t.Kind == KindNote || t.Kind == KindComment
}

// Rule returns the task's recurrence rule.
func (t *Task) Rule() schedule.Rule {
	return schedule.Rule{Kind: t.Recurrence, Days: t.RecurrenceDays}
}

// IsRecurring returns true if the task repeats.
func (t *Task) IsRecurring() bool {
	return t.Rule().IsRecurring()
}

// HasTag reports whether tag is one of the task's tags.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// OpenSession returns the index of the running session, or -1.
func (t *Task) OpenSession() int {
	for i := len(t.Sessions) - 1; i >= 0; i-- {
		if t.Sessions[i].IsOpen() {
			return i
		}
	}
	return -1
}

// OccursOn reports whether the task is active on day. Folders never occur.
func OccursOn(t *Task, day schedule.Date) bool {
	if t.IsFolder() {
		return false
	}
	return schedule.OccursOn(t.Date, t.EndDate, t.Rule(), day)
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Date != nil {
		d := *t.Date
		c.Date = &d
	}
	if t.EndDate != nil {
		d := *t.EndDate
		c.EndDate = &d
	}
	if t.Pomodoro != nil {
		p := *t.Pomodoro
		c.Pomodoro = &p
	}
	c.RecurrenceDays = slices.Clone(t.RecurrenceDays)
	c.Tags = slices.Clone(t.Tags)
	c.Sessions = cloneSessions(t.Sessions)
	return &c
}

func cloneSessions(in []Session) []Session {
	if in == nil {
		return nil
	}
	out := make([]Session, len(in))
	for i, s := range in {
		out[i] = Session{Start: s.Start}
		if s.End != nil {
			end := *s.End
			out[i].End = &end
		}
	}
	return out
}

// SortByOrder sorts tasks ascending by Order. Ties keep their collection order.
func SortByOrder(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return cmp.Compare(a.Order, b.Order)
	})
}
