package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Each colour has a light and a dark terminal variant.
var (
	ColorPurple      = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#7D56F4"}
	ColorGreen       = lipgloss.AdaptiveColor{Light: "#1B7A4C", Dark: "#25A065"}
	ColorBlue        = lipgloss.AdaptiveColor{Light: "#2A62C9", Dark: "#4285F4"}
	ColorRed         = lipgloss.AdaptiveColor{Light: "#B83A3A", Dark: "#E05252"}
	ColorYellow      = lipgloss.AdaptiveColor{Light: "#9A7B20", Dark: "#E5C07B"}
	ColorGray        = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
	ColorGrayDim     = lipgloss.AdaptiveColor{Light: "#C8C8C8", Dark: "#404040"}
	ColorWhite       = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FFFFFF"}
	ColorOffWhite    = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#D0D0D0"}
	ColorMagenta     = lipgloss.AdaptiveColor{Light: "#8E44AD", Dark: "#C678DD"}
	ColorSelectionBg = lipgloss.AdaptiveColor{Light: "#D6E4F5", Dark: "#2D3B4D"}
	ColorCyan        = lipgloss.AdaptiveColor{Light: "#2A7F8A", Dark: "#56B6C2"}
	ColorOrange      = lipgloss.AdaptiveColor{Light: "#A8612A", Dark: "#D19A66"}
	ColorMoveBg      = lipgloss.AdaptiveColor{Light: "#F5E6D3", Dark: "#3E2F1F"}
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// Filter bar styles
var (
	FilterLabelStyle = lipgloss.NewStyle().Foreground(ColorGray)

	FilterValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorPurple).
				Padding(0, 1)

	FilterIdleStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)
)

// Tree item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NormalStyle = lipgloss.NewStyle()

	CompleteStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	PendingStyle = lipgloss.NewStyle().Foreground(ColorOffWhite)

	FolderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	SystemStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorMagenta)

	DateStyle = lipgloss.NewStyle().Foreground(ColorGray)

	RunningStyle = lipgloss.NewStyle().Foreground(ColorRed)

	RecurringStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	MoveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange).
			Background(ColorMoveBg)

	DepthIndent = "  "
)

// Panel styles
var (
	PanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorGrayDim)

	NotesPanelStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(14)

	ModalValueStyle = lipgloss.NewStyle().Foreground(ColorWhite)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)

	InputStyle = lipgloss.NewStyle().Foreground(ColorWhite)
)

// Status icons
const (
	IconComplete  = "✓"
	IconPending   = "○"
	IconFolder    = "▣"
	IconNote      = "✎"
	IconComment   = "❝"
	IconRecurring = "↻"
	IconRunning   = "●"
	IconExpanded  = "▼"
	IconCollapsed = "▶"
	IconMove      = "↕"
)
