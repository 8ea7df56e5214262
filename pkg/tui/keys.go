package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Enter        key.Binding
	Space        key.Binding
	Tab          key.Binding
	PrevDay      key.Binding
	NextDay      key.Binding
	Today        key.Binding
	Range        key.Binding
	Status       key.Binding
	Tags         key.Binding
	Folder       key.Binding
	System       key.Binding
	InlineEdit   key.Binding
	ExternalEdit key.Binding
	Add          key.Binding
	AddTop       key.Binding
	Delete       key.Binding
	Rename       key.Binding
	Timer        key.Binding
	ToggleExpand key.Binding
	Reload       key.Binding
	Sync         key.Binding
	Help         key.Binding
	Move         key.Binding
	Quit         key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           bind("↑/k", "Move up", "up", "k"),
		Down:         bind("↓/j", "Move down", "down", "j"),
		Left:         bind("←/h", "Collapse", "left", "h"),
		Right:        bind("→/l", "Expand", "right", "l"),
		Enter:        bind("enter", "Toggle expand/collapse", "enter"),
		Space:        bind("space", "Complete / reopen", " "),
		Tab:          bind("tab", "Switch pane (tasks / notes)", "tab"),
		PrevDay:      bind("[", "Previous day", "["),
		NextDay:      bind("]", "Next day", "]"),
		Today:        bind("t", "Jump to today", "t"),
		Range:        bind("v", "Cycle range: day, week, all", "v"),
		Status:       bind("f", "Cycle status: all, pending, completed", "f"),
		Tags:         bind("/", "Filter by tags", "/"),
		Folder:       bind("o", "Scope to folder / leave folder", "o"),
		System:       bind(".", "Show notes and comments", "."),
		InlineEdit:   bind("e", "Inline edit notes", "e"),
		ExternalEdit: bind("E", "Edit in $EDITOR", "E"),
		Add:          bind("a", "Add subtask under selection", "a"),
		AddTop:       bind("A", "Add top-level task", "A"),
		Rename:       bind("r", "Rename task", "r"),
		Delete:       bind("d", "Delete task (with confirmation)", "d"),
		Timer:        bind("p", "Start / stop time tracking", "p"),
		ToggleExpand: bind("C", "Toggle expand/collapse all", "C"),
		Move:         bind("m", "Move mode (reorder/reparent)", "m"),
		Reload:       bind("R", "Reload from filesystem", "R"),
		Sync:         bind("s", "Git sync", "s"),
		Help:         bind("?", "Toggle help", "?"),
		Quit:         bind("q", "Quit", "q", "ctrl+c"),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  space done  [ ] day  v range  f status  / tags  a/A add  m move  p timer  ? help"
}

// FullHelp lists every binding as {keys, description} for the help modal.
func (k KeyMap) FullHelp() [][]string {
	all := []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.Enter, k.Space, k.Tab,
		k.PrevDay, k.NextDay, k.Today, k.Range, k.Status, k.Tags, k.Folder, k.System,
		k.InlineEdit, k.ExternalEdit, k.Add, k.AddTop, k.Rename, k.Delete,
		k.Timer, k.ToggleExpand, k.Move, k.Reload, k.Sync, k.Help, k.Quit,
	}
	rows := make([][]string, 0, len(all))
	for _, b := range all {
		h := b.Help()
		rows = append(rows, []string{h.Key, h.Desc})
	}
	return rows
}
