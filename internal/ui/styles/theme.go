package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/mustermeister/internal/models"
)

// Theme is a color scheme for the TUI
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

var Current = TokyoNight

// MaxWidth caps the content width on wide terminals
const MaxWidth = 80

// ContentWidth is the terminal width capped at MaxWidth
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally when the terminal is wider
// than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// Styles holds the precomputed styles of every view
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Panel lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	TaskDone     lipgloss.Style
	TaskPriority lipgloss.Style
	StatusBadge  lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	Notice lipgloss.Style
	Alert  lipgloss.Style
}

// NewStyles builds styles from the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		TitleMuted: lipgloss.NewStyle().Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),
		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),
		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		TaskDone:     lipgloss.NewStyle().Foreground(t.ForegroundDim).Strikethrough(true),
		TaskPriority: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		StatusBadge:  lipgloss.NewStyle().Foreground(t.Accent),

		Help:    lipgloss.NewStyle().Foreground(t.ForegroundDim).Padding(1, 2),
		HelpKey: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),

		Notice: lipgloss.NewStyle().Foreground(t.Success).Padding(0, 2),
		Alert:  lipgloss.NewStyle().Foreground(t.Error).Padding(0, 2),
	}
}

// Swatch renders a colored dot for a project color, or a dim one when
// the project has none
func Swatch(c models.Color) string {
	hex := c.Hex()
	if hex == "" {
		return lipgloss.NewStyle().Foreground(Current.ForegroundDim).Render("○")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

// PriorityColor maps a task priority onto the theme
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return Current.Error
	case models.PriorityMedium:
		return Current.Warning
	case models.PriorityLow:
		return Current.Success
	}
	return Current.ForegroundDim
}

// ProgressBar draws a fixed width bar for a percentage
func ProgressBar(percentage, width int) string {
	if width < 1 {
		return ""
	}
	filled := min(max(percentage*width/100, 0), width)
	return lipgloss.NewStyle().Foreground(Current.Success).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Current.Border).Render(strings.Repeat("░", width-filled))
}

// StateLabel is the display text of a project state
func StateLabel(s models.ProjectState) string {
	switch s {
	case models.ProjectCompleted:
		return "completed"
	case models.ProjectInProgress:
		return "in progress"
	}
	return "not started"
}
