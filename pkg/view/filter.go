package view

import (
	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
)

// Visible returns the tasks matching ctx, in input order. Callers sort the
// snapshot by order first. The input is never modified.
func Visible(tasks []*task.Task, ctx Context) []*task.Task {
	ix := task.NewIndex(tasks)
	var out []*task.Task
	for _, t := range tasks {
		if matches(ix, t, ctx) {
			out = append(out, t)
		}
	}
	return out
}

func matches(ix *task.Index, t *task.Task, ctx Context) bool {
	if ctx.ExcludeSystem && t.IsSystem() {
		return false
	}
	for _, tag := range ctx.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	if ix.Depth(t) > task.MaxDepth {
		return false
	}
	if ctx.Folder != "" && !ix.IsWithin(t, ctx.Folder) {
		return false
	}
	switch ctx.Status {
	case StatusPending:
		if t.IsCompleted() {
			return false
		}
	case StatusCompleted:
		if !t.IsCompleted() {
			return false
		}
	}
	if t.IsFolder() {
		return true
	}
	return inRange(t, ctx.Range)
}

// inRange enumerates every day; custom recurrence has no closed form.
func inRange(t *task.Task, r DateRange) bool {
	if r.IsAll() {
		return true
	}
	if r.IsSingleDay() {
		return task.OccursOn(t, r.Start)
	}
	found := false
	r.Each(func(day schedule.Date) bool {
		found = task.OccursOn(t, day)
		return !found
	})
	return found
}

// Occurrences lists the days in r on which t occurs. An all-dates range
// yields nothing.
func Occurrences(t *task.Task, r DateRange) []schedule.Date {
	var out []schedule.Date
	r.Each(func(day schedule.Date) bool {
		if task.OccursOn(t, day) {
			out = append(out, day)
		}
		return true
	})
	return out
}
