package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		modal := m.renderHelpModal()
		return placeOverlay(modal, w, h)
	}

	if m.showDeleteConfirm && m.deleteTarget != nil {
		modal := m.renderDeleteModal()
		return placeOverlay(modal, w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")

	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	// Input bar takes a line if active
	if m.input != inputNone {
		headerLines++
		b.WriteString(m.renderInputBar())
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines

	// Two-panel layout
	leftWidth := w / 4
	rightWidth := w - leftWidth - 1 // 1 char for divider
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderTreePanel(leftWidth, contentHeight)
	rightPanel := m.renderNotesPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == 1 || m.isEditing {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Cadence")

	done, total := m.counts()
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d done", done, total))

	status := ""
	if m.statusMsg != "" && m.now().Before(m.statusTimeout) {
		status = "  " + lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

// renderFilterBar shows the date window and the active filters.
func (m Model) renderFilterBar() string {
	parts := []string{
		FilterValueStyle.Render(m.rangeLabel()),
		FilterLabelStyle.Render(" status ") + FilterIdleStyle.Render(string(m.status)),
	}
	if len(m.tags) > 0 {
		parts = append(parts, FilterLabelStyle.Render(" tags ")+FilterIdleStyle.Render(joinTags(m.tags)))
	}
	if m.folder != "" {
		name := m.folder
		if f, err := m.ctrl.Get(m.folder); err == nil {
			name = f.Title
		}
		parts = append(parts, FilterLabelStyle.Render(" in ")+FilterIdleStyle.Render(IconFolder+" "+name))
	}
	if m.showSystem {
		parts = append(parts, FilterIdleStyle.Render("+notes"))
	}
	return strings.Join(parts, "")
}

func (m Model) rangeLabel() string {
	today := schedule.Today(m.now())
	switch m.span {
	case spanAll:
		return "All dates"
	case spanWeek:
		end := m.anchor.AddDays(6)
		return fmt.Sprintf("%s – %s", shortDate(m.anchor), shortDate(end))
	default:
		switch today.DaysUntil(m.anchor) {
		case 0:
			return "Today " + shortDate(m.anchor)
		case 1:
			return "Tomorrow " + shortDate(m.anchor)
		case -1:
			return "Yesterday " + shortDate(m.anchor)
		}
		return shortDate(m.anchor)
	}
}

func shortDate(d schedule.Date) string {
	return d.Time().Format("Mon Jan 2")
}

func (m Model) renderInputBar() string {
	var label string
	switch m.input {
	case inputAdd:
		label = "add"
		if m.inputParent != "" {
			if p, err := m.ctrl.Get(m.inputParent); err == nil {
				label = "add under " + p.Title
			}
		}
	case inputRename:
		label = "rename"
	case inputTags:
		label = "tags"
	}
	return InputPromptStyle.Render(" "+label+" > ") + m.textInput.View()
}

func (m Model) renderTreePanel(width, height int) string {
	// The last line shows the data directory.
	treeHeight := max(height-1, 1)

	var lines []string
	if len(m.rows) == 0 {
		lines = append(lines, FooterStyle.Render("Nothing here. Press 'A' to add a task."))
	}
	start, end := scrollWindow(m.cursor, len(m.rows), treeHeight)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, width))
	}

	lines = fit(lines, treeHeight)
	if m.dataDir != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.dataDir)))
	}
	return strings.Join(lines, "\n")
}

// scrollWindow returns the [start, end) slice of n rows that keeps cursor
// near the middle of a window of the given height.
func scrollWindow(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := max(cursor-height/2, 0)
	end := start + height
	if end > n {
		end = n
		start = max(end-height, 0)
	}
	return start, end
}

// fit truncates or pads lines to exactly height entries.
func fit(lines []string, height int) []string {
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) renderRow(row view.Row, isSelected bool, width int) string {
	t := row.Task
	indent := strings.Repeat(DepthIndent, row.Depth)

	expandIcon := "  "
	if row.HasChildren {
		if row.IsCollapsed {
			expandIcon = IconCollapsed + " "
		} else {
			expandIcon = IconExpanded + " "
		}
	}

	movePrefix := ""
	isMoveTarget := m.isMoveMode && t.ID == m.moveID
	if isMoveTarget {
		movePrefix = IconMove + " "
	}

	line := indent + movePrefix + expandIcon + statusIcon(t) + " " + t.Title
	if t.IsRecurring() && !t.IsFolder() {
		line += " " + RecurringStyle.Render(IconRecurring)
	}
	if t.OpenSession() >= 0 {
		line += " " + RunningStyle.Render(IconRunning)
	}
	if m.span != spanDay && t.Date != nil && !t.IsFolder() {
		line += "  " + DateStyle.Render(shortDate(*t.Date))
	}

	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	if isMoveTarget {
		line = MoveStyle.Render(line)
	} else if isSelected {
		line = SelectedStyle.Render(line)
	}

	return line
}

func statusIcon(t *task.Task) string {
	switch {
	case t.IsFolder():
		return FolderStyle.Render(IconFolder)
	case t.Kind == task.KindNote:
		return SystemStyle.Render(IconNote)
	case t.Kind == task.KindComment:
		return SystemStyle.Render(IconComment)
	case t.IsCompleted():
		return CompleteStyle.Render(IconComplete)
	default:
		return PendingStyle.Render(IconPending)
	}
}

func (m Model) renderNotesPanel(width, height int) string {
	row, ok := m.current()
	if !ok {
		return FooterStyle.Render(" Select a task to view notes")
	}
	t := row.Task

	// The last line links the task file.
	bodyHeight := max(height-1, 1)
	pathLine := lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(t.FilePath))
	header := m.renderTaskHeader(t)

	var lines []string
	if m.isEditing {
		lines = strings.Split(m.renderMarkdown(header), "\n")
		lines = append(lines, strings.Split(m.noteEditor.View(), "\n")...)
	} else {
		md := header + t.Notes
		if t.Notes != "" && !strings.HasSuffix(t.Notes, "\n") {
			md += "\n"
		}
		lines = strings.Split(m.renderMarkdown(md), "\n")
		scroll := min(max(m.notesScroll, 0), len(lines)-1)
		lines = lines[scroll:]
	}

	lines = append(fit(lines, bodyHeight), pathLine)
	return strings.Join(lines, "\n")
}

// renderMarkdown renders md with the cached glamour renderer, falling back
// to the raw text.
func (m Model) renderMarkdown(md string) string {
	out := md
	if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(md); err == nil {
			out = rendered
		}
	}
	return strings.TrimRight(out, "\n ")
}

// renderTaskHeader builds the markdown header (title and metadata) for a task.
func (m Model) renderTaskHeader(t *task.Task) string {
	var md strings.Builder

	md.WriteString("# " + t.Title + "\n\n")

	var meta []string
	if t.Kind != "" && t.Kind != task.KindTask {
		meta = append(meta, "**Kind:** "+string(t.Kind))
	}
	if t.Date != nil {
		when := t.Date.String()
		if t.EndDate != nil {
			when += " → " + t.EndDate.String()
		}
		meta = append(meta, "**Date:** "+when)
	}
	if t.IsRecurring() {
		meta = append(meta, "**Repeats:** "+describeRule(t.Rule()))
	}
	if !t.IsFolder() {
		meta = append(meta, "**Status:** "+string(t.Status))
	}
	if len(t.Tags) > 0 {
		meta = append(meta, "**Tags:** "+strings.Join(t.Tags, ", "))
	}
	if tracked := task.Tracked(t, m.now()); tracked > 0 {
		meta = append(meta, "**Tracked:** "+tracked.Round(time.Minute).String())
	}
	if len(meta) > 0 {
		md.WriteString(strings.Join(meta, " | ") + "\n\n")
	}

	return md.String()
}

func describeRule(r schedule.Rule) string {
	if r.Kind != schedule.Custom {
		return string(r.Kind)
	}
	var names []string
	for _, d := range schedule.SortedDays(r.Days) {
		names = append(names, d.String()[:3])
	}
	return "every " + strings.Join(names, ", ")
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	switch {
	case m.input != inputNone:
		help = "enter confirm  esc cancel"
	case m.isEditing:
		help = "esc save & exit  ctrl+s save  ctrl+c cancel"
	case m.isMoveMode:
		help = "↑↓ reorder  ← outdent  → nest  enter/esc done  q cancel"
	case m.focusedPane == 1:
		help = "↑↓ scroll notes  tab tree  e edit  E $EDITOR  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete Task"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s' and everything nested under it?\n\n", m.deleteTarget.Title))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
