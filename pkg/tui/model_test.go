package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/cadence/pkg/planner"
	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/store"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2024, 1, 8, 9, 0, 0, 0, time.Local)

func now() time.Time { return clock }

func setup(t *testing.T, tasks ...*task.Task) (*planner.Controller, *store.Store) {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	c := planner.New(s, planner.Options{Now: now})
	require.NoError(t, c.Load())
	for _, tk := range tasks {
		_, err := c.Add(tk)
		require.NoError(t, err)
	}
	return c, s
}

func newModel(c *planner.Controller) Model {
	return NewModel(c, Options{Range: "today", Now: now})
}

func day(offset int) *schedule.Date {
	d := schedule.DateOf(clock).AddDays(offset)
	return &d
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func titles(m Model) []string {
	var out []string
	for _, r := range m.rows {
		out = append(out, r.Task.Title)
	}
	return out
}

func TestNewModelShowsToday(t *testing.T) {
	c, _ := setup(t,
		&task.Task{Title: "today", Date: day(0)},
		&task.Task{Title: "tomorrow", Date: day(1)},
		&task.Task{Title: "someday"},
	)
	m := newModel(c)
	assert.Equal(t, []string{"today"}, titles(m))
}

func TestRangeCycles(t *testing.T) {
	c, _ := setup(t,
		&task.Task{Title: "today", Date: day(0)},
		&task.Task{Title: "tomorrow", Date: day(1)},
		&task.Task{Title: "someday"},
	)
	m := newModel(c)

	m = press(m, "v")
	assert.Equal(t, []string{"today", "tomorrow"}, titles(m))
	m = press(m, "v")
	assert.Equal(t, []string{"today", "tomorrow", "someday"}, titles(m))
	m = press(m, "v")
	assert.Equal(t, []string{"today"}, titles(m))

	m = press(m, "]")
	assert.Equal(t, []string{"tomorrow"}, titles(m))
	m = press(m, "t")
	assert.Equal(t, []string{"today"}, titles(m))
}

func TestSpaceRollsRecurringTaskForward(t *testing.T) {
	c, _ := setup(t, &task.Task{Title: "standup", Date: day(0), Recurrence: schedule.Weekly})
	m := newModel(c)

	m = press(m, " ")
	assert.Contains(t, m.statusMsg, "next on "+day(7).String())

	// Today keeps the completed copy; the task itself moved a week ahead.
	require.Len(t, m.rows, 1)
	assert.True(t, m.rows[0].Task.IsCompleted())
	assert.Equal(t, schedule.None, m.rows[0].Task.Recurrence)

	m = press(m, "f")
	assert.Empty(t, m.rows, "pending filter hides the archive")
}

func TestAddSubtaskUnderCursor(t *testing.T) {
	c, _ := setup(t, &task.Task{Title: "Home", Kind: task.KindFolder})
	m := newModel(c)
	require.Equal(t, []string{"Home"}, titles(m))

	m = press(m, "a", "fix sink", "enter")
	assert.Equal(t, []string{"Home", "fix sink"}, titles(m))
	assert.Equal(t, 1, m.rows[1].Depth)
	assert.Equal(t, 1, m.cursor)

	added := m.rows[1].Task
	require.NotNil(t, added.Date)
	assert.Equal(t, day(0).String(), added.Date.String())
}

func TestInputEscCancels(t *testing.T) {
	c, _ := setup(t)
	m := newModel(c)
	m = press(m, "A", "quit me", "esc")
	assert.Empty(t, c.Tasks())
	assert.Equal(t, inputNone, m.input)
}

func TestTagFilter(t *testing.T) {
	c, _ := setup(t,
		&task.Task{Title: "report", Date: day(0), Tags: []string{"work"}},
		&task.Task{Title: "groceries", Date: day(0), Tags: []string{"home"}},
	)
	m := newModel(c)
	m = press(m, "/", "work", "enter")
	assert.Equal(t, []string{"work"}, m.tags)
	assert.Equal(t, []string{"report"}, titles(m))
}

func TestRename(t *testing.T) {
	c, _ := setup(t, &task.Task{Title: "old", Date: day(0)})
	m := newModel(c)
	m = press(m, "r")
	assert.Equal(t, "old", m.textInput.Value())
	m.textInput.SetValue("new")
	m = press(m, "enter")
	assert.Equal(t, []string{"new"}, titles(m))
}

func TestMoveModeReorders(t *testing.T) {
	c, _ := setup(t,
		&task.Task{ID: "a", Title: "a", Date: day(0)},
		&task.Task{ID: "b", Title: "b", Date: day(0)},
		&task.Task{ID: "c", Title: "c", Date: day(0)},
	)
	m := newModel(c)

	m = press(m, "m", "j")
	assert.Equal(t, []string{"b", "a", "c"}, titles(m), "rows move before anything is written")
	assert.Equal(t, "a", c.Tasks()[0].ID)

	m = press(m, "enter")
	assert.False(t, m.isMoveMode)
	assert.Equal(t, []string{"b", "a", "c"}, titles(m))
	assert.Equal(t, "b", c.Tasks()[0].ID)
	assert.Equal(t, "a", m.rows[m.cursor].Task.ID)
}

func TestMoveModeDiscardsStaleView(t *testing.T) {
	c, s := setup(t,
		&task.Task{ID: "a", Title: "a", Date: day(0)},
		&task.Task{ID: "b", Title: "b", Date: day(0)},
		&task.Task{ID: "c", Title: "c", Date: day(0)},
	)
	m := newModel(c)

	m = press(m, "m", "j")
	require.NoError(t, s.Delete("c"))
	m = press(m, "enter")

	assert.Contains(t, m.statusMsg, "discarded")
	assert.Equal(t, []string{"a", "b"}, titles(m))
}

func TestMoveModeNestsAndLifts(t *testing.T) {
	c, _ := setup(t,
		&task.Task{ID: "a", Title: "a", Date: day(0)},
		&task.Task{ID: "b", Title: "b", Date: day(0)},
	)
	m := newModel(c)

	m = press(m, "j", "m", "l")
	b, err := c.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "a", b.ParentID)
	assert.Equal(t, 1, m.rows[1].Depth)

	m = press(m, "h", "enter")
	b, err = c.Get("b")
	require.NoError(t, err)
	assert.Empty(t, b.ParentID)
	assert.False(t, m.isMoveMode)
}

func TestDeleteConfirmCascades(t *testing.T) {
	c, _ := setup(t,
		&task.Task{ID: "p", Title: "parent", Date: day(0)},
		&task.Task{ID: "k", Title: "kid", Date: day(0), ParentID: "p"},
	)
	m := newModel(c)

	m = press(m, "d", "n")
	assert.Len(t, c.Tasks(), 2)

	m = press(m, "d", "y")
	assert.Empty(t, c.Tasks())
	assert.Empty(t, m.rows)
}

func TestCollapseHidesChildren(t *testing.T) {
	c, _ := setup(t,
		&task.Task{ID: "p", Title: "parent", Date: day(0)},
		&task.Task{ID: "k", Title: "kid", Date: day(0), ParentID: "p"},
	)
	m := newModel(c)

	m = press(m, "h")
	assert.Equal(t, []string{"parent"}, titles(m))
	m = press(m, "l")
	assert.Equal(t, []string{"parent", "kid"}, titles(m))
}

func TestSnapshotRebuildsRows(t *testing.T) {
	c, s := setup(t)
	m := newModel(c)

	_, err := s.Create(&task.Task{Title: "from disk", Date: day(0)})
	require.NoError(t, err)
	tasks, err := s.List()
	require.NoError(t, err)

	next, _ := m.Update(SnapshotMsg{Tasks: tasks})
	m = next.(Model)
	assert.Equal(t, []string{"from disk"}, titles(m))
}

func TestTimerStartsAndStops(t *testing.T) {
	c, _ := setup(t, &task.Task{ID: "x", Title: "focus", Date: day(0)})
	m := newModel(c)

	m = press(m, "p")
	x, err := c.Get("x")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, x.OpenSession(), 0)

	press(m, "p")
	x, err = c.Get("x")
	require.NoError(t, err)
	assert.Equal(t, -1, x.OpenSession())
}

func TestViewRenders(t *testing.T) {
	c, _ := setup(t, &task.Task{Title: "standup", Date: day(0), Recurrence: schedule.Daily, Notes: "agenda"})
	m := newModel(c)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "Cadence")
	assert.Contains(t, out, "standup")
	assert.Contains(t, out, "0/1 done")

	m = press(m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
}
