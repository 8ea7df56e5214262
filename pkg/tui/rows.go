package tui

import (
	"strings"

	"github.com/stefanpenner/cadence/pkg/view"
)

// viewContext is the filter the tree is built from.
func (m Model) viewContext() view.Context {
	var r view.DateRange
	switch m.span {
	case spanWeek:
		r = view.Days(m.anchor, m.anchor.AddDays(6))
	case spanAll:
		r = view.AllDates()
	default:
		r = view.On(m.anchor)
	}
	return view.Context{
		Range:         r,
		Tags:          m.tags,
		Status:        m.status,
		Folder:        m.folder,
		ExcludeSystem: !m.showSystem,
	}
}

// reload re-reads the store, then rebuilds the rows.
func (m *Model) reload() {
	if err := m.ctrl.Load(); err != nil {
		m.setStatus("Reload failed: " + err.Error())
	}
	m.rebuild()
}

// rebuild recomputes the rows from the controller snapshot, keeping the
// cursor on the same task when it is still shown.
func (m *Model) rebuild() {
	var curID string
	if row, ok := m.current(); ok {
		curID = row.Task.ID
	}
	m.rows = view.Tree(m.ctrl.Visible(m.viewContext()), m.collapsed)
	m.selectID(curID)
}

func (m Model) current() (view.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return view.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) selectID(id string) {
	if id != "" {
		for i, r := range m.rows {
			if r.Task.ID == id {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// counts returns the completed and total number of non-folder rows.
func (m Model) counts() (done, total int) {
	for _, r := range m.rows {
		if r.Task.IsFolder() {
			continue
		}
		total++
		if r.Task.IsCompleted() {
			done++
		}
	}
	return done, total
}

func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
