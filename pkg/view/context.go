// Package view derives the visible, ordered subset of a task snapshot for a
// given filter context.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/stefanpenner/cadence/pkg/schedule"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatus parses a status filter name. The empty string means all.
func ParseStatus(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending, StatusCompleted:
		return f, nil
	default:
		return StatusAll, fmt.Errorf("invalid status filter: %s (use all, pending or completed)", s)
	}
}

// DateRange is an inclusive span of days. The zero value matches every task.
type DateRange struct {
	Start schedule.Date
	End   schedule.Date
}

// AllDates matches regardless of date.
func AllDates() DateRange {
	return DateRange{}
}

// On is the single-day range for day.
func On(day schedule.Date) DateRange {
	return DateRange{Start: day, End: day}
}

// Days is the inclusive range from..to. Reversed bounds are swapped.
func Days(from, to schedule.Date) DateRange {
	if to.Before(from) {
		from, to = to, from
	}
	return DateRange{Start: from, End: to}
}

// Today is the single-day range for the local day of now.
func Today(now time.Time) DateRange {
	return On(schedule.Today(now))
}

// Week is the seven days starting at the local day of now.
func Week(now time.Time) DateRange {
	today := schedule.Today(now)
	return Days(today, today.AddDays(6))
}

// IsAll reports whether the range matches every task.
func (r DateRange) IsAll() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IsSingleDay reports whether the range covers exactly one day.
func (r DateRange) IsSingleDay() bool {
	return !r.IsAll() && r.Start.Equal(r.End)
}

// Each calls fn for every day in the range until fn returns false.
func (r DateRange) Each(fn func(schedule.Date) bool) {
	if r.IsAll() {
		return
	}
	for day := r.Start; !day.After(r.End); day = day.AddDays(1) {
		if !fn(day) {
			return
		}
	}
}

func (r DateRange) String() string {
	switch {
	case r.IsAll():
		return "all dates"
	case r.IsSingleDay():
		return r.Start.String()
	default:
		return r.Start.String() + ".." + r.End.String()
	}
}

// Context bundles the independent predicates a view applies.
type Context struct {
	Range         DateRange
	Tags          []string // every tag must be present
	Status        StatusFilter
	Folder        string // folder id; empty means no scope
	ExcludeSystem bool   // hide notes and timeline comments
}
