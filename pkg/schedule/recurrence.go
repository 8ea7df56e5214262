// Package schedule answers calendar questions about recurring tasks: whether a
// task occurs on a given day and when its next occurrence falls.
package schedule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the recurrence pattern of a task.
type Kind string

const (
	None    Kind = "none"
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
	Custom  Kind = "custom"
)

// ParseKind parses a recurrence name. The empty string is None.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", None:
		return None, nil
	case Daily, Weekly, Monthly, Custom:
		return k, nil
	default:
		return None, fmt.Errorf("invalid recurrence: %s (use none, daily, weekly, monthly or custom)", s)
	}
}

// Rule is a recurrence pattern. Days is only consulted for Custom.
type Rule struct {
	Kind Kind
	Days []time.Weekday
}

// IsRecurring reports whether the rule repeats at all.
func (r Rule) IsRecurring() bool {
	return r.Kind != "" && r.Kind != None
}

// OccursOn reports whether a task anchored on date (optionally spanning to
// end) is active on target under rule. A nil date never occurs.
func OccursOn(date, end *Date, rule Rule, target Date) bool {
	if date == nil {
		return false
	}

	if !rule.IsRecurring() {
		if end != nil {
			return !target.Before(*date) && !target.After(*end)
		}
		return target.Equal(*date)
	}

	if target.Before(*date) {
		return false
	}
	if end != nil && target.After(*end) {
		return false
	}

	switch rule.Kind {
	case Daily:
		return true
	case Weekly:
		return target.Weekday() == date.Weekday()
	case Monthly:
		// An anchor on the 31st never matches a 30-day month.
		return target.Day == date.Day
	case Custom:
		return slices.Contains(rule.Days, target.Weekday())
	default:
		return false
	}
}

// Next returns the occurrence after anchor. The second result is false when
// the rule has no further occurrence (None, or Custom with no days).
func Next(anchor Date, rule Rule) (Date, bool) {
	switch rule.Kind {
	case Daily:
		return anchor.AddDays(1), true
	case Weekly:
		return anchor.AddDays(7), true
	case Monthly:
		return anchor.AddMonths(1), true
	case Custom:
		days := SortedDays(rule.Days)
		if len(days) == 0 {
			return Date{}, false
		}
		cur := anchor.Weekday()
		for _, d := range days {
			if d > cur {
				return anchor.AddDays(int(d - cur)), true
			}
		}
		return anchor.AddDays(7 - int(cur) + int(days[0])), true
	default:
		return Date{}, false
	}
}

// SortedDays returns the distinct valid weekdays in ascending order.
func SortedDays(days []time.Weekday) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday || slices.Contains(out, d) {
			continue
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParseDays parses a comma-separated weekday list. Entries may be indices
// (0=Sunday) or names ("mon", "Tuesday").
func ParseDays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday index out of range: %d", n)
			}
			days = append(days, time.Weekday(n))
			continue
		}
		if len(part) >= 3 {
			if d, ok := weekdayNames[part[:3]]; ok {
				days = append(days, d)
				continue
			}
		}
		return nil, fmt.Errorf("unknown weekday: %s", part)
	}
	return SortedDays(days), nil
}
