// Package legacy converts JSON exports of the old document-store planner
// into tasks.
package legacy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
)

var ErrInvalidJSON = errors.New("invalid JSON export")

const (
	markerNote    = "@@note@@"
	markerComment = "@@comment@@"
)

// Result is the outcome of reading an export.
type Result struct {
	Tasks    []*task.Task
	Warnings []string
}

// Parse reads an export: either an array of task documents or an object
// with a "tasks" array. Document ids are kept so parent links survive.
func Parse(data []byte) (*Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	docs := root
	if root.IsObject() {
		docs = root.Get("tasks")
	}
	if !docs.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of tasks", ErrInvalidJSON)
	}

	res := &Result{}
	seen := make(map[string]bool)
	i := -1
	docs.ForEach(func(_, doc gjson.Result) bool {
		i++
		if !doc.IsObject() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: not an object", i))
			return true
		}
		t, warns := convert(doc)
		for _, w := range warns {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: %s", i, w))
		}
		if t.ID != "" && seen[t.ID] {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: duplicate id %s skipped", i, t.ID))
			return true
		}
		seen[t.ID] = true
		res.Tasks = append(res.Tasks, t)
		return true
	})
	return res, nil
}

func convert(doc gjson.Result) (*task.Task, []string) {
	var warns []string
	t := &task.Task{
		ID:       firstString(doc, "id", "_id"),
		Title:    strings.TrimSpace(firstString(doc, "title", "text", "name")),
		Kind:     task.KindTask,
		Status:   task.StatusPending,
		ParentID: firstString(doc, "parentId", "parent"),
		Order:    doc.Get("order").Float(),
		Color:    doc.Get("color").String(),
		Icon:     doc.Get("icon").String(),
		Notes:    doc.Get("notes").String(),
	}
	if t.Title == "" {
		t.Title = "(untitled)"
	}
	if status := doc.Get("status").String(); status == string(task.StatusCompleted) || doc.Get("completed").Bool() {
		t.Status = task.StatusCompleted
	}

	if d, ok, err := parseDate(doc.Get("date")); err != nil {
		warns = append(warns, "date: "+err.Error())
	} else if ok {
		t.Date = &d
	}
	if d, ok, err := parseDate(doc.Get("endDate")); err != nil {
		warns = append(warns, "endDate: "+err.Error())
	} else if ok {
		t.EndDate = &d
	}

	kind, err := schedule.ParseKind(doc.Get("recurrence").String())
	if err != nil {
		warns = append(warns, err.Error())
	}
	t.Recurrence = kind
	doc.Get("recurrenceDays").ForEach(func(_, v gjson.Result) bool {
		if n := v.Int(); v.Type == gjson.Number && n >= 0 && n <= 6 {
			t.RecurrenceDays = append(t.RecurrenceDays, time.Weekday(n))
		}
		return true
	})
	t.RecurrenceDays = schedule.SortedDays(t.RecurrenceDays)
	if len(t.RecurrenceDays) == 0 {
		t.RecurrenceDays = nil
	}

	t.Kind, t.Tags = classify(doc.Get("category").String())
	switch {
	case doc.Get("isFolder").Bool():
		t.Kind = task.KindFolder
	case t.Kind == task.KindTask && t.Date == nil && t.Color != "":
		// Older exports marked folders only by a color and no date.
		t.Kind = task.KindFolder
	}

	doc.Get("sessions").ForEach(func(_, s gjson.Result) bool {
		start, ok := parseInstant(s.Get("start"))
		if !ok {
			warns = append(warns, "session without a valid start skipped")
			return true
		}
		sess := task.Session{Start: start}
		if end, ok := parseInstant(s.Get("end")); ok {
			sess.End = &end
		}
		t.Sessions = append(t.Sessions, sess)
		return true
	})

	if p := doc.Get("pomodoro"); p.IsObject() {
		t.Pomodoro = &task.Pomodoro{Work: int(p.Get("work").Int()), Break: int(p.Get("break").Int())}
	}
	if ts, ok := parseInstant(doc.Get("createdAt")); ok {
		t.Created = ts
	}
	return t, warns
}

// classify splits a category string into a kind and user tags. Reserved
// markers are wrapped in @@ and never become tags.
func classify(category string) (task.Kind, []string) {
	kind := task.KindTask
	var tags []string
	for _, part := range strings.Split(category, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == markerNote:
			kind = task.KindNote
		case part == markerComment:
			kind = task.KindComment
		case strings.HasPrefix(part, "@@") && strings.HasSuffix(part, "@@"):
			// unknown marker
		default:
			tags = append(tags, part)
		}
	}
	return kind, tags
}

func firstString(doc gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := doc.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp, whose calendar day
// is read in its own offset.
func parseDate(v gjson.Result) (schedule.Date, bool, error) {
	s := strings.TrimSpace(v.String())
	if !v.Exists() || v.Type == gjson.Null || s == "" {
		return schedule.Date{}, false, nil
	}
	if d, err := schedule.ParseDate(s); err == nil {
		return d, true, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return schedule.Date{}, false, fmt.Errorf("unrecognised date %q", s)
	}
	return schedule.DateOf(ts), true, nil
}

// parseInstant accepts RFC 3339 strings or epoch milliseconds.
func parseInstant(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC(), true
	case gjson.String:
		ts, err := time.Parse(time.RFC3339, v.String())
		return ts, err == nil
	default:
		return time.Time{}, false
	}
}
