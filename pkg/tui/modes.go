package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/cadence/pkg/reorder"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

func (m *Model) startInput(kind inputKind, value, placeholder string) tea.Cmd {
	m.input = kind
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.textInput.Focus()
	return textinput.Blink
}

// handleInput handles key messages while the single-line input is open.
func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.textInput.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.textInput.Value())
		switch m.input {
		case inputAdd:
			m.addTask(value)
		case inputRename:
			m.renameTask(value)
		case inputTags:
			m.tags = splitTags(value)
			m.rebuild()
		}
		m.input = inputNone
		m.textInput.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// addTask creates a task dated on the anchor day so it shows up in the
// current window.
func (m *Model) addTask(title string) {
	if title == "" {
		return
	}
	t := &task.Task{Title: title, ParentID: m.inputParent}
	if m.span != spanAll {
		day := m.anchor
		t.Date = &day
	}
	created, err := m.ctrl.Add(t)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	if m.inputParent != "" {
		delete(m.collapsed, m.inputParent)
	}
	m.rebuild()
	m.selectID(created.ID)
	m.setStatus("Added: " + title)
}

func (m *Model) renameTask(title string) {
	if title == "" {
		return
	}
	if _, err := m.ctrl.Update(m.inputTarget, task.Patch{Title: &title}); err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.rebuild()
	m.setStatus("Renamed to: " + title)
}

// handleEditMode handles key messages while inline editing.
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Save and exit
		m.saveInlineEdit()
		m.isEditing = false
		m.noteEditor.Blur()
		m.rebuild()
		return m, nil

	case tea.KeyCtrlS:
		// Save but stay in edit mode
		m.saveInlineEdit()
		m.rebuild()
		return m, nil

	case tea.KeyCtrlC:
		// Cancel without saving
		m.isEditing = false
		m.noteEditor.Blur()
		m.setStatus("Edit cancelled")
		return m, nil

	default:
		var cmd tea.Cmd
		m.noteEditor, cmd = m.noteEditor.Update(msg)
		return m, cmd
	}
}

// enterEditMode sets up the textarea for inline editing of a task's notes.
func (m *Model) enterEditMode(t *task.Task) {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetValue(t.Notes)
	m.sizeEditor(&ta)
	ta.Focus()

	m.isEditing = true
	m.noteEditor = ta
	m.editID = t.ID
	m.focusedPane = 1
}

// sizeEditor fits the textarea to the right panel below the notes header.
func (m Model) sizeEditor(ta *textarea.Model) {
	width := m.width - (m.width / 4) - 1
	if width < 20 {
		width = 20
	}
	height := m.height - 5 - 4 - 1
	if height < 3 {
		height = 3
	}
	ta.SetWidth(width)
	ta.SetHeight(height)
}

func (m *Model) saveInlineEdit() {
	notes := m.noteEditor.Value()
	if _, err := m.ctrl.Update(m.editID, task.Patch{Notes: &notes}); err != nil {
		m.setStatus("Save error: " + err.Error())
		return
	}
	m.setStatus("Saved")
}

// handleMoveMode shuffles rows locally; the new order is written once the
// user leaves move mode or changes nesting.
func (m Model) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.shiftUnit(-1)

	case key.Matches(msg, m.keys.Down):
		m.shiftUnit(1)

	case key.Matches(msg, m.keys.Left):
		if m.commitMove() {
			m.outdent()
		}

	case key.Matches(msg, m.keys.Right):
		if m.commitMove() {
			m.indent()
		}

	case msg.Type == tea.KeyEsc, msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Move):
		m.commitMove()
		m.isMoveMode = false

	case key.Matches(msg, m.keys.Quit):
		m.isMoveMode = false
		m.moved = false
		m.rebuild()
		m.selectID(m.moveID)
		m.setStatus("Move cancelled")
	}
	return m, nil
}

func (m *Model) shiftUnit(delta int) {
	start, end := reorder.UnitAt(m.rows, m.cursor)
	rows, at, err := reorder.MoveUnit(m.rows, start, end, delta)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	if at != start {
		m.rows = rows
		m.cursor = at
		m.moved = true
	}
}

// commitMove writes the pending row order. It reports false when the store
// changed underneath the view and the move was dropped.
func (m *Model) commitMove() bool {
	if !m.moved {
		return true
	}
	m.moved = false
	n, err := m.ctrl.Reorder(view.IDs(m.rows))
	switch {
	case errors.Is(err, reorder.ErrStaleSnapshot):
		m.setStatus("Tasks changed on disk; move discarded")
	case err != nil:
		m.setStatus("Reorder failed: " + err.Error())
	default:
		m.setStatus(fmt.Sprintf("Reordered %d tasks", n))
	}
	m.rebuild()
	m.selectID(m.moveID)
	return err == nil
}

// outdent lifts the moving task to its grandparent.
func (m *Model) outdent() {
	t, err := m.ctrl.Get(m.moveID)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	if t.ParentID == "" {
		m.setStatus("Already at top level")
		return
	}
	grandparent := ""
	if p, err := m.ctrl.Get(t.ParentID); err == nil {
		grandparent = p.ParentID
	}
	m.reparent(grandparent)
}

// indent nests the moving task under the sibling row above it.
func (m *Model) indent() {
	i := m.siblingAbove()
	if i < 0 {
		m.setStatus("No sibling above to nest under")
		return
	}
	parent := m.rows[i].Task.ID
	delete(m.collapsed, parent)
	m.reparent(parent)
}

func (m Model) siblingAbove() int {
	row, ok := m.current()
	if !ok {
		return -1
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Depth < row.Depth {
			return -1
		}
		if m.rows[i].Depth == row.Depth {
			return i
		}
	}
	return -1
}

func (m *Model) reparent(parentID string) {
	if _, err := m.ctrl.Reparent(m.moveID, parentID); err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.rebuild()
	m.selectID(m.moveID)
}
