package legacy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

const export = `{
  "tasks": [
    {"id": "f1", "title": "Home", "color": "#2ecc71", "order": 1},
    {"id": "t1", "title": "Gym", "date": "2024-01-01", "recurrence": "custom",
     "recurrenceDays": [3, 1, 1, 9], "parentId": "f1", "order": 2,
     "category": "health, @@unknown@@ ,fitness",
     "sessions": [{"start": 1704099600000, "end": "2024-01-01T09:30:00Z"}, {"start": "2024-01-01T18:00:00Z"}]},
    {"id": "n1", "title": "Journal", "date": "2024-01-02T23:30:00-08:00", "category": "@@note@@", "color": "#000"},
    {"id": "c1", "text": "Looks good", "category": "@@comment@@,review"},
    {"id": "x1", "title": "Explicit folder", "isFolder": true, "date": "2024-01-05"},
    {"id": "d1", "title": "Done", "completed": true, "recurrence": "yearly", "pomodoro": {"work": 50, "break": 10}},
    "not an object",
    {"id": "t1", "title": "dup"}
  ]
}`

func byID(t *testing.T, res *Result) map[string]*task.Task {
	t.Helper()
	out := make(map[string]*task.Task, len(res.Tasks))
	for _, tk := range res.Tasks {
		out[tk.ID] = tk
	}
	return out
}

func TestParseExport(t *testing.T) {
	res, err := Parse([]byte(export))
	require.NoError(t, err)
	require.Len(t, res.Tasks, 6)
	tasks := byID(t, res)

	home := tasks["f1"]
	assert.Equal(t, task.KindFolder, home.Kind, "no date plus a color is a folder")

	gym := tasks["t1"]
	assert.Equal(t, task.KindTask, gym.Kind)
	assert.Equal(t, schedule.Custom, gym.Recurrence)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, gym.RecurrenceDays)
	assert.Equal(t, "f1", gym.ParentID)
	assert.Equal(t, []string{"health", "fitness"}, gym.Tags)
	require.Len(t, gym.Sessions, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), gym.Sessions[0].Start)
	assert.NotNil(t, gym.Sessions[0].End)
	assert.True(t, gym.Sessions[1].IsOpen())

	note := tasks["n1"]
	assert.Equal(t, task.KindNote, note.Kind, "markers win over the color heuristic")
	assert.Empty(t, note.Tags)
	assert.Equal(t, "2024-01-02", note.Date.String(), "timestamp day is read in its own offset")

	comment := tasks["c1"]
	assert.Equal(t, task.KindComment, comment.Kind)
	assert.Equal(t, "Looks good", comment.Title)
	assert.Equal(t, []string{"review"}, comment.Tags)

	assert.Equal(t, task.KindFolder, tasks["x1"].Kind)

	done := tasks["d1"]
	assert.True(t, done.IsCompleted())
	assert.Equal(t, schedule.None, done.Recurrence)
	assert.Equal(t, 50, done.Pomodoro.Work)

	assert.Len(t, res.Warnings, 3) // bad recurrence, non-object, duplicate id
}

func TestParseBareArray(t *testing.T) {
	res, err := Parse([]byte(`[{"id": "a", "title": "A"}]`))
	require.NoError(t, err)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, task.StatusPending, res.Tasks[0].Status)
	assert.Nil(t, res.Tasks[0].Date)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{`{"tasks":`, `{"tasks": 3}`, `"hello"`} {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidJSON, in)
	}
}

func TestBadDateIsAWarning(t *testing.T) {
	res, err := Parse([]byte(`[{"id": "a", "title": "A", "date": "next tuesday"}]`))
	require.NoError(t, err)
	require.Len(t, res.Tasks, 1)
	assert.Nil(t, res.Tasks[0].Date)
	assert.Len(t, res.Warnings, 1)
}

func TestImportedFolderSurvivesDateFilter(t *testing.T) {
	res, err := Parse([]byte(`[{"id": "f", "title": "Errands", "color": "#f00"}, {"id": "t", "title": "Milk", "date": "2020-01-01"}]`))
	require.NoError(t, err)

	visible := view.Visible(res.Tasks, view.Context{Range: view.Today(time.Now())})
	require.Len(t, visible, 1)
	assert.Equal(t, "f", visible[0].ID)
}
