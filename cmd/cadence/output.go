package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.Bold, color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	blue    = color.New(color.Bold, color.FgBlue).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func icon(t *task.Task) string {
	switch {
	case t.IsFolder():
		return blue("▣")
	case t.Kind == task.KindNote:
		return magenta("✎")
	case t.Kind == task.KindComment:
		return magenta("❝")
	case t.IsCompleted():
		return green("✓")
	default:
		return "○"
	}
}

// rowJSON is a list entry: the task plus its place in the tree.
type rowJSON struct {
	*task.Task
	Depth int `json:"depth"`
}

func printRows(w io.Writer, rows []view.Row) {
	for _, r := range rows {
		t := r.Task
		title := t.Title
		if t.IsFolder() {
			title = bold(title)
		}
		line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", r.Depth), icon(t), dim(shortID(t.ID)), title)
		if t.Date != nil && !t.IsFolder() {
			line += "  " + cyan(t.Date.String())
		}
		if t.IsRecurring() && !t.IsFolder() {
			line += " " + yellow("↻ "+describeRule(t.Rule()))
		}
		if len(t.Tags) > 0 {
			line += "  " + dim("#"+strings.Join(t.Tags, " #"))
		}
		if t.OpenSession() >= 0 {
			line += " " + red("●")
		}
		fmt.Fprintln(w, line)
	}
}

func printTask(w io.Writer, t *task.Task, now time.Time) {
	fmt.Fprintf(w, "%s %s\n", icon(t), bold(t.Title))
	field := func(label, value string) {
		fmt.Fprintf(w, "  %-11s %s\n", label+":", value)
	}
	field("ID", t.ID)
	field("Kind", string(t.Kind))
	if !t.IsFolder() {
		field("Status", string(t.Status))
	}
	if t.Date != nil {
		when := t.Date.String()
		if t.EndDate != nil {
			when += " .. " + t.EndDate.String()
		}
		field("Date", when)
	}
	if t.IsRecurring() {
		field("Repeats", describeRule(t.Rule()))
	}
	if t.ParentID != "" {
		field("Parent", t.ParentID)
	}
	if len(t.Tags) > 0 {
		field("Tags", strings.Join(t.Tags, ", "))
	}
	if len(t.Sessions) > 0 {
		field("Sessions", fmt.Sprintf("%d (%s tracked)", len(t.Sessions), task.Tracked(t, now).Round(time.Second)))
	}
	field("File", t.FilePath)
	if t.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Notes)
	}
}

func describeRule(r schedule.Rule) string {
	if r.Kind != schedule.Custom {
		return string(r.Kind)
	}
	var names []string
	for _, d := range schedule.SortedDays(r.Days) {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}
