package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/floatchat/internal/config"
	"github.com/diogo/floatchat/internal/history"
	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/models"
	"github.com/diogo/floatchat/internal/notify"
	"github.com/diogo/floatchat/internal/render"
	"github.com/diogo/floatchat/internal/session"
)

// toastDuration is how long a confirmation line stays visible
const toastDuration = 1500 * time.Millisecond

// splitMinWidth is the narrowest terminal that gets side-by-side panels
const splitMinWidth = 100

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	replyMsg struct {
		msg models.Message
	}
	toastExpiredMsg struct {
		id int
	}
)

// Options configures the chat TUI
type Options struct {
	Markdown  config.MarkdownConfig
	Notify    bool
	ExportDir string
}

// Model represents the TUI state
type Model struct {
	ctrl *session.Controller
	opts Options

	// UI components
	viewport viewport.Model
	vizport  viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready          bool
	showSQL        bool
	err            error
	toast          string
	toastID        int
	animationFrame int
	rendered       map[int]string // markdown cache by log index
	renderedWidth  int

	// selected is the log index of the reply ctrl+y copies; -1 follows the newest
	selected     int
	selectedLine int

	// Side effects, swapped in tests
	copyText   func(string) error
	notifyDone func(models.Message) error

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model around a session controller
func NewChatModel(ctrl *session.Controller, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about float profiles, temperature, salinity..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctrl:       ctrl,
		opts:       opts,
		textarea:   ta,
		spinner:    s,
		rendered:   make(map[int]string),
		selected:   -1,
		copyText:   clipboard.WriteAll,
		notifyDone: notify.ReplyReady,
	}
}

// chatKeys scroll the conversation without stealing keys from the input
func chatKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}

// vizKeys scroll the visualization panel
func vizKeys() viewport.KeyMap {
	return viewport.KeyMap{
		Up:   key.NewBinding(key.WithKeys("shift+up")),
		Down: key.NewBinding(key.WithKeys("shift+down")),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// An issued request cannot be cancelled
			if !m.ctrl.Busy() {
				return m, tea.Quit
			}
			return m, nil

		case "tab":
			m.showSQL = !m.showSQL
			m.refreshViz()
			return m, nil

		case "ctrl+y":
			return m.copySelected()

		case "alt+up":
			return m.moveSelection(-1)

		case "alt+down":
			return m.moveSelection(1)

		case "alt+1", "alt+2", "alt+3", "alt+4":
			if m.ctrl.Layout() == models.LayoutInitial && !m.ctrl.Busy() {
				idx := int(msg.Runes[0] - '1')
				return m.submit(models.ExamplePrompts[idx])
			}
			return m, nil

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.ctrl.Busy() {
				return m, nil
			}
			switch {
			case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
				return m, tea.Quit
			case input == "/sql":
				m.textarea.Reset()
				m.showSQL = !m.showSQL
				m.refreshViz()
				return m, nil
			case input == "/export" || strings.HasPrefix(input, "/export "):
				m.textarea.Reset()
				return m.export(strings.TrimSpace(strings.TrimPrefix(input, "/export")))
			}
			return m.submit(m.textarea.Value())
		}

	case replyMsg:
		m.selected = -1
		m.refresh()
		m.viewport.GotoBottom()
		if m.opts.Notify {
			reply := msg.msg
			cmds = append(cmds, func() tea.Msg {
				_ = m.notifyDone(reply)
				return nil
			})
		}

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}

	case spinner.TickMsg:
		if m.ctrl.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.ctrl.Busy() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.ctrl.Busy() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.vizport, cmd = m.vizport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit records the user turn and starts the backend call
func (m Model) submit(prompt string) (tea.Model, tea.Cmd) {
	ex, err := m.ctrl.Begin(prompt)
	if err != nil {
		// Busy and empty prompts are filtered before we get here
		logging.Logger().Debug("submit rejected", "err", err)
		return m, nil
	}

	m.textarea.Reset()
	m.err = nil
	m.animationFrame = 0
	m.resize()
	m.refresh()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		runExchange(ex),
		m.spinner.Tick,
		animationTick(),
	)
}

// runExchange performs the backend call off the update loop
func runExchange(ex *session.Exchange) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{msg: ex.Run(context.Background())}
	}
}

// copyTargets lists the log indices of replies that can be copied
func copyTargets(log []models.Message) []int {
	var targets []int
	for i, msg := range log {
		if msg.Copyable() {
			targets = append(targets, i)
		}
	}
	return targets
}

// copyTarget resolves the reply ctrl+y copies: the selected one, else the newest
func (m Model) copyTarget(log []models.Message) (int, bool) {
	targets := copyTargets(log)
	if len(targets) == 0 {
		return -1, false
	}
	for _, i := range targets {
		if i == m.selected {
			return i, true
		}
	}
	return targets[len(targets)-1], true
}

// moveSelection steps the copy selection through the assistant replies
func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	log := m.ctrl.Snapshot().Messages
	targets := copyTargets(log)
	current, ok := m.copyTarget(log)
	if !ok {
		return m, nil
	}

	pos := 0
	for i, idx := range targets {
		if idx == current {
			pos = i
		}
	}
	if m.selected >= 0 {
		pos = min(max(pos+delta, 0), len(targets)-1)
	}
	m.selected = targets[pos]

	m.updateViewport()
	m.viewport.SetYOffset(m.selectedLine)
	return m, nil
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	log := m.ctrl.Snapshot().Messages
	idx, ok := m.copyTarget(log)
	if !ok {
		return m, nil
	}
	reply := log[idx]
	if err := m.copyText(reply.Content); err != nil {
		logging.Logger().Info("clipboard write failed", "err", err)
		m.err = fmt.Errorf("copy failed: %w", err)
		return m, nil
	}
	return m.showToast("Copied to clipboard ✓")
}

func (m Model) export(path string) (tea.Model, tea.Cmd) {
	if path == "" {
		dir := m.opts.ExportDir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		path = history.DefaultExportPath(dir, history.ExportFormatMarkdown, time.Now())
	}

	opts := history.DefaultExportOptions()
	opts.Backend = m.ctrl.ChatURL()
	if err := history.WriteFile(path, m.ctrl.Snapshot().Messages, opts); err != nil {
		m.err = err
		return m, nil
	}
	return m.showToast("Exported to " + path)
}

func (m Model) showToast(text string) (tea.Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	id := m.toastID
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// split reports whether chat and visualization sit side by side
func (m Model) split() bool {
	return m.width >= splitMinWidth
}

// panelSizes returns the outer sizes of the chat and visualization panels
func (m Model) panelSizes() (chatW, chatH, vizW, vizH int) {
	contentWidth := max(m.width-2, 20)

	headerHeight := 3 // header panel with border
	inputHeight := 5  // input panel with border
	statusHeight := 2 // status bar and toast line

	bodyHeight := max(m.height-headerHeight-inputHeight-statusHeight, 6)

	if m.ctrl.Layout() == models.LayoutInitial {
		return contentWidth, bodyHeight, 0, 0
	}
	if m.split() {
		chatW = contentWidth * 2 / 5
		return chatW, bodyHeight, contentWidth - chatW, bodyHeight
	}
	chatH = bodyHeight / 2
	return contentWidth, chatH, contentWidth, bodyHeight - chatH
}

// resize applies the current dimensions to the child components
func (m *Model) resize() {
	chatW, chatH, vizW, vizH := m.panelSizes()

	if !m.ready {
		m.viewport = viewport.New(max(chatW-4, 10), max(chatH-2, 3))
		m.viewport.KeyMap = chatKeys()
		m.vizport = viewport.New(max(vizW-4, 10), max(vizH-2, 3))
		m.vizport.KeyMap = vizKeys()
	} else {
		m.viewport.Width = max(chatW-4, 10)
		m.viewport.Height = max(chatH-2, 3)
		m.vizport.Width = max(vizW-4, 10)
		m.vizport.Height = max(vizH-2, 3)
	}
	m.textarea.SetWidth(max(m.width-8, 10))
}

// refresh re-renders both panels from the controller snapshot
func (m *Model) refresh() {
	m.updateViewport()
	m.refreshViz()
}

func (m *Model) refreshViz() {
	snap := m.ctrl.Snapshot()
	m.vizport.SetContent(renderVisualization(snap, m.showSQL, m.vizport.Width, m.vizport.Height))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	bubbleWidth := max(m.viewport.Width-6, 10)
	if bubbleWidth != m.renderedWidth {
		m.rendered = make(map[int]string)
		m.renderedWidth = bubbleWidth
	}

	mdOpts := render.OptionsFromConfig(m.opts.Markdown, bubbleWidth-4)

	var content strings.Builder
	for i, msg := range m.ctrl.Snapshot().Display() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
			content.WriteString("\n")
			continue
		}

		label := assistantLabelStyle.Render("≋ FloatChat")
		if i == m.selected {
			m.selectedLine = strings.Count(content.String(), "\n")
			label += selectedMarkStyle.Render("  ◂ Ctrl+Y copies this reply")
		}
		content.WriteString(label + "\n")
		switch {
		case msg.IsPending():
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(pendingStyle.Render(models.PendingContent)))
		case strings.HasPrefix(msg.Content, "Error: "):
			content.WriteString(errorBubbleStyle.Width(bubbleWidth).Render(msg.Content))
		default:
			rendered, ok := m.rendered[i]
			if !ok {
				rendered = render.Reply(msg.Content, mdOpts)
				m.rendered[i] = rendered
			}
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
			if msg.IsVisualizable() || msg.SQLQuery != "" {
				content.WriteString("\n" + hintStyle.Render("  "+dataBadge(msg)))
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// dataBadge summarizes the data attached to a reply
func dataBadge(msg models.Message) string {
	var parts []string
	if msg.TableData != nil {
		parts = append(parts, fmt.Sprintf("%d row(s)", len(msg.TableData)))
	}
	if msg.GeoData != nil {
		parts = append(parts, fmt.Sprintf("%d location(s)", len(models.GeoPoints(msg.GeoData))))
	}
	if msg.SQLQuery != "" {
		parts = append(parts, "SQL")
	}
	return "▸ " + strings.Join(parts, " · ")
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := max(m.width-2, 20)
	chatW, chatH, vizW, vizH := m.panelSizes()

	// Header
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("≋ FloatChat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.ctrl.ChatURL()),
	)
	sections = append(sections, headerStyle.Width(contentWidth-2).Render(headerContent))

	// Body
	snap := m.ctrl.Snapshot()
	if snap.Layout == models.LayoutInitial {
		sections = append(sections, messagesAreaStyle.
			Width(chatW-2).
			Height(chatH-2).
			Render(m.renderWelcome(chatW-4, chatH-2)))
	} else {
		chat := messagesAreaStyle.Width(chatW - 2).Height(chatH - 2).Render(m.viewport.View())
		viz := vizPanelStyle.Width(vizW - 2).Height(vizH - 2).Render(m.vizport.View())
		if m.split() {
			sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, chat, viz))
		} else {
			sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, chat, viz))
		}
	}

	// Input
	var inputContent string
	if snap.Busy {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth-2).Render(inputContent))

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth, snap.Layout))

	// Toast or error line
	switch {
	case m.err != nil:
		sections = append(sections, FormatError(m.err))
	case m.toast != "":
		sections = append(sections, toastStyle.Render(m.toast))
	default:
		sections = append(sections, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the landing screen with the example prompts
func (m Model) renderWelcome(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	lines := []string{
		center.Render(welcomeIconStyle.Render("≋ ≋ ≋")),
		"",
		center.Render(welcomeTitleStyle.Render("FloatChat")),
		center.Render(subtitleStyle.Render("Ask questions about Argo ocean float data")),
		"",
	}
	for i, p := range models.ExamplePrompts {
		lines = append(lines, center.Render(
			exampleKeyStyle.Render(fmt.Sprintf("[Alt+%d] ", i+1))+exampleTextStyle.Render(p),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	topPadding := max((height-lipgloss.Height(content))/2, 0)
	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the animated waiting indicator
func (m Model) renderLoadingAnimation() string {
	frame := m.animationFrame

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		color := waveColors[(i+frame)%len(waveColors)]
		bar.WriteString(lipgloss.NewStyle().Foreground(color).Render("≈"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Querying the float database ")
	return fmt.Sprintf("%s %s %s", m.spinner.View(), bar.String(), text)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int, layout models.LayoutMode) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
	}
	if layout == models.LayoutInitial {
		shortcuts = append(shortcuts, struct{ key, desc string }{"Alt+1-4", "Examples"})
	} else {
		shortcuts = append(shortcuts,
			struct{ key, desc string }{"Tab", "SQL"},
			struct{ key, desc string }{"Alt+↑↓", "Select"},
			struct{ key, desc string }{"Ctrl+Y", "Copy"},
			struct{ key, desc string }{"PgUp/PgDn", "Scroll"},
			struct{ key, desc string }{"Shift+↑↓", "Results"},
		)
	}
	shortcuts = append(shortcuts, struct{ key, desc string }{"Esc", "Quit"})

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(ctrl *session.Controller, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(ctrl, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
