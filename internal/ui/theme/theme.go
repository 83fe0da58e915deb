package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/doist/internal/model"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color
	PriorityUrgent lipgloss.Color

	Favorite lipgloss.Color
}

// PriorityColor returns the color for a task priority
func (t Theme) PriorityColor(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityUrgent:
		return t.PriorityUrgent
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityMedium:
		return t.PriorityMedium
	default:
		return t.PriorityLow
	}
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	// Base styles
	Header lipgloss.Style
	Footer lipgloss.Style

	// Sidebar styles
	Sidebar         lipgloss.Style
	SidebarFocused  lipgloss.Style
	SidebarHeader   lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarActive   lipgloss.Style
	Favorite        lipgloss.Style

	// Task styles
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskOverdue  lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Tag      lipgloss.Style
	DueDate  lipgloss.Style
	Priority lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Panel styles
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style
	Modal        lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		// Base styles
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		// Sidebar styles
		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		SidebarFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		SidebarHeader: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true).
			MarginTop(1),

		SidebarItem: lipgloss.NewStyle().
			Foreground(t.Foreground),

		SidebarSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true),

		SidebarActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Favorite: lipgloss.NewStyle().
			Foreground(t.Favorite),

		// Task styles
		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		// Component styles
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Tag: lipgloss.NewStyle().
			Foreground(t.Info).
			Padding(0, 1).
			MarginRight(1),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Priority: lipgloss.NewStyle().
			Bold(true),

		// Input styles
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		// Panel styles
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PanelFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(t.Primary).
			Padding(1, 2),

		// Help styles
		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
