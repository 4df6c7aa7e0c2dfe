package render

// Glamour styles accepted for markdown.style
const (
	StyleDark    = "dark"
	StyleLight   = "light"
	StyleDracula = "dracula"
	StyleTokyo   = "tokyo-night"
	StylePink    = "pink"
	StyleNoTTY   = "notty"
	StyleASCII   = "ascii"
)

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the glamour styles bundled with the binary
func AvailableStyles() []ThemeInfo {
	return []ThemeInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyo, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// IsBuiltinStyle reports whether style names a bundled glamour style rather
// than a path to a JSON style file
func IsBuiltinStyle(style string) bool {
	for _, t := range AvailableStyles() {
		if t.Name == style {
			return true
		}
	}
	return false
}

// StyleNames returns just the style names
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, t := range styles {
		names[i] = t.Name
	}
	return names
}
