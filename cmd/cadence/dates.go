package main

import (
	"strings"
	"time"

	"github.com/stefanpenner/cadence/pkg/schedule"
)

// parseDay accepts YYYY-MM-DD or a day relative to now.
func parseDay(s string, now time.Time) (schedule.Date, error) {
	today := schedule.Today(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	return schedule.ParseDate(strings.TrimSpace(s))
}
