package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/floatchat/internal/config"
	"github.com/diogo/floatchat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewStyleSelect    // Markdown style
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuNotify
	menuForceSQL
	menuStyle
	menuTUITheme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// toggle describes a boolean setting in the main menu
type toggle struct {
	label string
	field func(*config.Config) *bool
}

var toggles = map[int]toggle{
	menuVerbose:         {"Verbose Logging", func(c *config.Config) *bool { return &c.Verbose }},
	menuCopyToClipboard: {"Copy Replies", func(c *config.Config) *bool { return &c.CopyToClipboard }},
	menuNotify:          {"Reply Notifications", func(c *config.Config) *bool { return &c.Notify }},
	menuForceSQL:        {"Force SQL", func(c *config.Config) *bool { return &c.ForceSQL }},
}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config     config.Config
	configPath string
	baseURL    string
	save       func(config.Config) error

	// Navigation
	view           configView
	cursor         int
	styleCursor    int
	tuiThemeCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a new config TUI model. baseURL is the resolved
// backend address, shown read-only.
func NewConfigModel(cfg config.Config, baseURL string) ConfigModel {
	configPath, _ := config.GetConfigPath()

	if cfg.Markdown.Style == "" {
		cfg.Markdown.Style = render.StyleDark
	}
	if cfg.TUITheme == "" {
		cfg.TUITheme = render.AbyssTheme.Name
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		baseURL:         baseURL,
		save:            config.SaveConfig,
		styleCursor:     indexOf(render.StyleNames(), cfg.Markdown.Style),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), cfg.TUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, v string) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// wrap moves a cursor by delta within n items
func wrap(cursor, delta, n int) int {
	return ((cursor+delta)%n + n) % n
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, delta, menuItemCount)
	case viewStyleSelect:
		m.styleCursor = wrap(m.styleCursor, delta, len(render.StyleNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor, delta, len(render.TUIThemeNames()))
	}
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		if t, ok := toggles[m.cursor]; ok {
			field := t.field(&m.config)
			*field = !*field
			state := "disabled"
			if *field {
				state = "enabled"
			}
			return m.persist(fmt.Sprintf("%s %s", t.label, state))
		}
		switch m.cursor {
		case menuStyle:
			m.view = viewStyleSelect
		case menuTUITheme:
			m.view = viewTUIThemeSelect
		case menuExit:
			return m, tea.Quit
		}
		return m, nil

	case viewStyleSelect:
		m.config.Markdown.Style = render.StyleNames()[m.styleCursor]
		m.view = viewMain
		return m.persist("Markdown style set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected

		// Apply the new TUI theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()

		m.view = viewMain
		return m.persist("TUI theme set to " + selected)
	}

	return m, nil
}

func (m ConfigModel) persist(feedback string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = feedback
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := max(m.width-4, 40)
	sections := []string{configTitleStyle.Render("≋ Configuration")}

	paths := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Log:     %s", configPathStyle.Render(m.config.LogFile)),
		fmt.Sprintf("   Backend: %s", configPathStyle.Render(m.baseURL)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))

	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewStyleSelect:
		settings = m.renderChoices("Select Markdown Style", render.AvailableStyles(), m.styleCursor, m.config.Markdown.Style)
	case viewTUIThemeSelect:
		var themes []render.ThemeInfo
		for _, t := range render.AvailableTUIThemes() {
			themes = append(themes, render.ThemeInfo{Name: t.Name, Description: t.Description})
		}
		settings = m.renderChoices("Select TUI Theme", themes, m.tuiThemeCursor, m.config.TUITheme)
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) item(index, cursor int, label, value string) string {
	prefix := "  "
	style := configMenuItemStyle
	if index == cursor {
		prefix = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return prefix + style.Render(label)
	}
	return prefix + style.Render(fmt.Sprintf("%-22s", label)) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	items := []string{configSectionTitleStyle.Render("Settings"), ""}

	for i := menuVerbose; i <= menuForceSQL; i++ {
		t := toggles[i]
		items = append(items, m.item(i, m.cursor, t.label, m.renderBoolValue(*t.field(&m.config))))
	}
	items = append(items,
		m.item(menuStyle, m.cursor, "Markdown Style", configValueStyle.Render(m.config.Markdown.Style)),
		m.item(menuTUITheme, m.cursor, "TUI Theme", configValueStyle.Render(m.config.TUITheme)),
		"",
		m.item(menuExit, m.cursor, "Exit", ""),
	)

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderChoices renders a selection sub-menu
func (m ConfigModel) renderChoices(title string, choices []render.ThemeInfo, cursor int, current string) string {
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, c := range choices {
		line := m.item(i, cursor, fmt.Sprintf("%s - %s", c.Name, c.Description), "")
		if c.Name == current {
			line += configEnabledStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	items := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" "+back),
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig(cfg config.Config, baseURL string) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, baseURL),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
