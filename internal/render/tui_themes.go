package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Map plot
	Land   lipgloss.Color
	Marker lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// AbyssTheme is the default: deep navy with cyan accents
	AbyssTheme = TUITheme{
		Name:        "abyss",
		Description: "Abyss - Deep ocean blues with cyan accents",

		Background: lipgloss.Color("#0b1623"),
		Surface:    lipgloss.Color("#132a3e"),
		Border:     lipgloss.Color("#1f4766"),

		Primary:   lipgloss.Color("#22d3ee"),
		Secondary: lipgloss.Color("#34d399"),
		Accent:    lipgloss.Color("#60a5fa"),
		Warning:   lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#f87171"),

		Land:   lipgloss.Color("#1f4766"),
		Marker: lipgloss.Color("#facc15"),

		Text:     lipgloss.Color("#e2e8f0"),
		TextDim:  lipgloss.Color("#7c93ab"),
		TextMute: lipgloss.Color("#3a5670"),
	}

	// ReefTheme is a warmer teal and coral palette
	ReefTheme = TUITheme{
		Name:        "reef",
		Description: "Reef - Teal water with coral highlights",

		Background: lipgloss.Color("#10201f"),
		Surface:    lipgloss.Color("#17302e"),
		Border:     lipgloss.Color("#2b5250"),

		Primary:   lipgloss.Color("#2dd4bf"),
		Secondary: lipgloss.Color("#a3e635"),
		Accent:    lipgloss.Color("#fb7185"),
		Warning:   lipgloss.Color("#fdba74"),
		Error:     lipgloss.Color("#ef4444"),

		Land:   lipgloss.Color("#2b5250"),
		Marker: lipgloss.Color("#fb7185"),

		Text:     lipgloss.Color("#ecfdf5"),
		TextDim:  lipgloss.Color("#7fa8a3"),
		TextMute: lipgloss.Color("#3f6661"),
	}

	// PolarTheme is a light theme for bright terminals
	PolarTheme = TUITheme{
		Name:        "polar",
		Description: "Polar - Light theme with ice blues",

		Background: lipgloss.Color("#f8fafc"),
		Surface:    lipgloss.Color("#e2e8f0"),
		Border:     lipgloss.Color("#94a3b8"),

		Primary:   lipgloss.Color("#0369a1"),
		Secondary: lipgloss.Color("#15803d"),
		Accent:    lipgloss.Color("#7c3aed"),
		Warning:   lipgloss.Color("#b45309"),
		Error:     lipgloss.Color("#b91c1c"),

		Land:   lipgloss.Color("#cbd5e1"),
		Marker: lipgloss.Color("#dc2626"),

		Text:     lipgloss.Color("#0f172a"),
		TextDim:  lipgloss.Color("#475569"),
		TextMute: lipgloss.Color("#94a3b8"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = AbyssTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{AbyssTheme, ReefTheme, PolarTheme}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
