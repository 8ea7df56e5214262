package tui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/stefanpenner/cadence/pkg/planner"
	"github.com/stefanpenner/cadence/pkg/schedule"
	gitsync "github.com/stefanpenner/cadence/pkg/sync"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

// SnapshotMsg carries a fresh listing delivered by the store subscription.
type SnapshotMsg struct {
	Tasks []*task.Task
	Err   error
}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	Err error
}

// span is the width of the date window the tree shows.
type span int

const (
	spanDay span = iota
	spanWeek
	spanAll
)

func parseSpan(s string) span {
	switch s {
	case "week":
		return spanWeek
	case "all":
		return spanAll
	default:
		return spanDay
	}
}

func (s span) String() string {
	switch s {
	case spanWeek:
		return "week"
	case spanAll:
		return "all"
	default:
		return "day"
	}
}

type inputKind int

const (
	inputNone inputKind = iota
	inputAdd
	inputRename
	inputTags
)

// Options seeds the initial view. Zero values pick defaults.
type Options struct {
	DataDir       string
	Author        gitsync.Author
	Range         string // today, week or all
	Status        view.StatusFilter
	ExcludeSystem bool
	Now           func() time.Time
}

// Model is the Bubble Tea model for the planner TUI.
type Model struct {
	ctrl        *planner.Controller
	dataDir     string
	author      gitsync.Author
	now         func() time.Time
	keys        KeyMap
	width       int
	height      int
	rows        []view.Row
	collapsed   map[string]bool
	cursor      int
	focusedPane int // 0 = tree, 1 = notes
	notesScroll int

	// Filter state
	anchor     schedule.Date
	span       span
	status     view.StatusFilter
	tags       []string
	folder     string
	showSystem bool

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      *task.Task

	// Move mode
	isMoveMode bool
	moveID     string
	moved      bool // rows differ from the stored order

	// Single-line input (add, rename, tag filter)
	input       inputKind
	textInput   textinput.Model
	inputParent string
	inputTarget string

	// Inline edit mode
	isEditing  bool
	noteEditor textarea.Model
	editID     string

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int

	allCollapsed bool
}

// NewModel creates a new TUI model over a loaded controller.
func NewModel(ctrl *planner.Controller, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 200

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	status := opts.Status
	if status == "" {
		status = view.StatusAll
	}

	m := Model{
		ctrl:       ctrl,
		dataDir:    opts.DataDir,
		author:     opts.Author,
		now:        now,
		keys:       DefaultKeyMap(),
		collapsed:  make(map[string]bool),
		textInput:  ti,
		anchor:     schedule.Today(now()),
		span:       parseSpan(opts.Range),
		status:     status,
		showSystem: !opts.ExcludeSystem,
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rightWidth := msg.Width - (msg.Width / 4) - 1 - 2
		if rightWidth < 20 {
			rightWidth = 20
		}
		m.getGlamourRenderer(rightWidth)
		if m.isEditing {
			m.sizeEditor(&m.noteEditor)
		}
		return m, tea.ClearScreen

	case SnapshotMsg:
		if msg.Err != nil {
			m.setStatus("Reload failed: " + msg.Err.Error())
			return m, nil
		}
		m.ctrl.Replace(msg.Tasks)
		// Pending moves are reconciled against the store on exit, which
		// catches any change that arrived meanwhile.
		if !m.isMoveMode {
			m.rebuild()
		}
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.reload()
		}
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.setStatus("Editor: " + msg.Err.Error())
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	if m.isEditing {
		var cmd tea.Cmd
		m.noteEditor, cmd = m.noteEditor.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		return m.handleInput(msg)
	}

	if m.isEditing {
		return m.handleEditMode(msg)
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.isMoveMode {
		return m.handleMoveMode(msg)
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			ids, err := m.ctrl.Delete(m.deleteTarget.ID)
			if err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus(fmt.Sprintf("Deleted: %s (%d tasks)", m.deleteTarget.Title, len(ids)))
			}
			m.rebuild()
			m.showDeleteConfirm = false
			m.deleteTarget = nil
		case "n", "N", "esc":
			m.showDeleteConfirm = false
			m.deleteTarget = nil
		}
		return m, nil
	}

	row, hasRow := m.current()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			if m.notesScroll > 0 {
				m.notesScroll--
			}
		} else if m.cursor > 0 {
			m.cursor--
			m.notesScroll = 0
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.notesScroll++
		} else if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.notesScroll = 0
		}

	case key.Matches(msg, m.keys.Left):
		if !hasRow {
			break
		}
		if row.HasChildren && !row.IsCollapsed {
			m.collapsed[row.Task.ID] = true
			m.rebuild()
			break
		}
		// Jump to the parent row
		for i := m.cursor - 1; i >= 0; i-- {
			if m.rows[i].Depth < row.Depth {
				m.cursor = i
				break
			}
		}

	case key.Matches(msg, m.keys.Right):
		if hasRow && row.IsCollapsed {
			delete(m.collapsed, row.Task.ID)
			m.rebuild()
		}

	case key.Matches(msg, m.keys.Enter):
		if hasRow && row.HasChildren {
			if row.IsCollapsed {
				delete(m.collapsed, row.Task.ID)
			} else {
				m.collapsed[row.Task.ID] = true
			}
			m.rebuild()
		}

	case key.Matches(msg, m.keys.Space):
		if hasRow {
			m.toggle(row.Task)
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = 1 - m.focusedPane

	case key.Matches(msg, m.keys.PrevDay):
		m.shiftAnchor(-1)

	case key.Matches(msg, m.keys.NextDay):
		m.shiftAnchor(1)

	case key.Matches(msg, m.keys.Today):
		m.anchor = schedule.Today(m.now())
		m.rebuild()

	case key.Matches(msg, m.keys.Range):
		m.span = (m.span + 1) % 3
		m.rebuild()

	case key.Matches(msg, m.keys.Status):
		switch m.status {
		case view.StatusAll:
			m.status = view.StatusPending
		case view.StatusPending:
			m.status = view.StatusCompleted
		default:
			m.status = view.StatusAll
		}
		m.rebuild()

	case key.Matches(msg, m.keys.Tags):
		return m, m.startInput(inputTags, joinTags(m.tags), "tag, tag")

	case key.Matches(msg, m.keys.Folder):
		switch {
		case m.folder != "":
			m.folder = ""
			m.rebuild()
		case hasRow && row.Task.IsFolder():
			m.folder = row.Task.ID
			delete(m.collapsed, row.Task.ID)
			m.rebuild()
		default:
			m.setStatus("Select a folder to open")
		}

	case key.Matches(msg, m.keys.System):
		m.showSystem = !m.showSystem
		m.rebuild()

	case key.Matches(msg, m.keys.InlineEdit):
		if hasRow {
			m.enterEditMode(row.Task)
			return m, textarea.Blink
		}

	case key.Matches(msg, m.keys.ExternalEdit):
		if hasRow {
			return m, m.openEditor(row.Task)
		}

	case key.Matches(msg, m.keys.Add):
		if !hasRow {
			m.inputParent = m.folder
		} else {
			m.inputParent = row.Task.ID
		}
		return m, m.startInput(inputAdd, "", "new subtask")

	case key.Matches(msg, m.keys.AddTop):
		m.inputParent = m.folder
		return m, m.startInput(inputAdd, "", "new task")

	case key.Matches(msg, m.keys.Delete):
		if hasRow {
			m.showDeleteConfirm = true
			m.deleteTarget = row.Task
		}

	case key.Matches(msg, m.keys.Rename):
		if hasRow {
			m.inputTarget = row.Task.ID
			return m, m.startInput(inputRename, row.Task.Title, "title")
		}

	case key.Matches(msg, m.keys.Timer):
		if hasRow {
			m.toggleTimer(row.Task)
		}

	case key.Matches(msg, m.keys.ToggleExpand):
		if m.allCollapsed {
			clear(m.collapsed)
		} else {
			for _, r := range m.rows {
				if r.HasChildren {
					m.collapsed[r.Task.ID] = true
				}
			}
		}
		m.allCollapsed = !m.allCollapsed
		m.rebuild()

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		m.setStatus("Syncing...")
		return m, m.doSync()

	case key.Matches(msg, m.keys.Move):
		if hasRow {
			m.isMoveMode = true
			m.moveID = row.Task.ID
			m.moved = false
		}

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

// toggle completes or reopens t and reports where a recurring task went.
func (m *Model) toggle(t *task.Task) {
	out, err := m.ctrl.Toggle(t.ID)
	switch {
	case err != nil:
		m.setStatus("Error: " + err.Error())
	case out.RolledForward():
		m.setStatus(fmt.Sprintf("Done: %s, next on %s", t.Title, out.Task.Date.String()))
	case out.Task.IsCompleted():
		m.setStatus("Completed: " + t.Title)
	default:
		m.setStatus("Reopened: " + t.Title)
	}
	m.rebuild()
}

func (m *Model) toggleTimer(t *task.Task) {
	var err error
	if t.OpenSession() >= 0 {
		_, err = m.ctrl.StopSession(t.ID)
		if err == nil {
			m.setStatus("Stopped timer: " + t.Title)
		}
	} else {
		_, err = m.ctrl.StartSession(t.ID)
		if err == nil {
			m.setStatus("Started timer: " + t.Title)
		}
	}
	if err != nil {
		m.setStatus("Error: " + err.Error())
	}
	m.rebuild()
}

func (m *Model) shiftAnchor(dir int) {
	step := 1
	if m.span == spanWeek {
		step = 7
	}
	m.anchor = m.anchor.AddDays(dir * step)
	m.rebuild()
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = m.now().Add(3 * time.Second)
}

func (m *Model) openEditor(t *task.Task) tea.Cmd {
	if t.FilePath == "" {
		m.setStatus("No file for " + t.Title)
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	c := exec.Command(editor, t.FilePath)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func (m Model) doSync() tea.Cmd {
	dir, author, now := m.dataDir, m.author, m.now()
	return func() tea.Msg {
		return SyncDoneMsg{Err: gitsync.Sync(dir, author, now, io.Discard)}
	}
}
