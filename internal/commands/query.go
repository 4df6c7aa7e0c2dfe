package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/floatchat/internal/models"
	"github.com/diogo/floatchat/internal/render"
	"github.com/diogo/floatchat/internal/session"
	"github.com/diogo/floatchat/internal/tui"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#0b3d91"), // Deep blue
	lipgloss.Color("#1565c0"), // Blue
	lipgloss.Color("#1e88e5"), // Light blue
	lipgloss.Color("#00acc1"), // Cyan
	lipgloss.Color("#26c6da"), // Light cyan
	lipgloss.Color("#4dd0e1"), // Aqua
	lipgloss.Color("#80deea"), // Foam
	lipgloss.Color("#26a69a"), // Teal
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#4dd0e1")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginTop(1)

	dimStyle = lipgloss.NewStyle().Foreground(colorTextDim)
)

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner drawing on w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	waveChars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "▆", "▅", "▄", "▃", "▂"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Build animated wave
	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(waveChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(waveChars[charIdx]))
	}

	// Build animated dots
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.w, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single prompt through a fresh session and prints the reply.
// It returns an error when the backend call failed so the process exits non-zero.
func runQuery(ctx context.Context, deps *Dependencies, flags *rootFlags, rt *runtime, prompt string) error {
	decorated := !flags.raw && !flags.jsonOut
	verbose := rt.cfg.Verbose && decorated

	ctrl := session.New(rt.client)
	ex, err := ctrl.Begin(prompt)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Backend: %s\n", rt.client.ChatURL())
		if rt.cfg.SessionID != "" {
			fmt.Fprintf(deps.Stderr, "[verbose] Session: %s\n", rt.cfg.SessionID)
		}
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Querying floats")
		spin.start()
	}

	// Track request timing for verbose output
	startTime := time.Now()
	msg := ex.Run(ctx)
	requestDuration := time.Since(startTime)

	if reqErr := ex.Err(); reqErr != nil {
		if decorated {
			spin.stopWithError()
			fmt.Fprintln(deps.Stderr, tui.FormatError(reqErr))
		}
		if flags.jsonOut {
			_ = writeJSON(deps.Stdout, flags.output, msg)
		}
		return fmt.Errorf("chat request failed: %w", reqErr)
	}
	if decorated {
		spin.stopWithSuccess("Done")
	}

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
		if msg.TableData != nil {
			fmt.Fprintf(deps.Stderr, "[verbose] Reply includes %d table row(s)\n", len(msg.TableData))
		}
		if msg.GeoData != nil {
			fmt.Fprintf(deps.Stderr, "[verbose] Reply includes %d location(s)\n", len(msg.GeoData))
		}
		if msg.SQLQuery != "" {
			fmt.Fprintf(deps.Stderr, "[verbose] Reply includes a SQL query\n")
		}
	}

	if flags.jsonOut {
		return writeJSON(deps.Stdout, flags.output, msg)
	}

	// Raw output mode: output only the reply text
	if flags.raw {
		if flags.output != "" {
			return writeOutput(flags.output, msg.Content)
		}
		fmt.Fprint(deps.Stdout, msg.Content)
		return nil
	}

	// Decorated output mode
	fmt.Fprintln(deps.Stderr)

	if rt.cfg.CopyToClipboard {
		if err := deps.Clipboard(msg.Content); err != nil {
			// Log warning but don't fail
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if flags.output != "" {
		if err := writeOutput(flags.output, msg.Content); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", flags.output),
		))
		return nil
	}

	printReply(deps.Stdout, msg, rt, getTerminalWidth())
	return nil
}

// printReply writes the reply bubble followed by its table, map and SQL
func printReply(w io.Writer, msg models.Message, rt *runtime, termWidth int) {
	bubbleWidth := min(max(termWidth-4, 40), 120)
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(w, assistantLabelStyle.Render("≋ floatchat"))

	renderOpts := render.OptionsFromConfig(rt.cfg.Markdown, contentWidth)
	fmt.Fprintln(w, assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(msg.Content, renderOpts)))

	if msg.GeoData != nil {
		points := models.GeoPoints(msg.GeoData)
		fmt.Fprintln(w, sectionTitleStyle.Render(fmt.Sprintf("Map · %d location(s)", len(points))))
		if len(points) > 0 {
			fmt.Fprintln(w, render.GeoMap(points, render.MapOptions{Width: bubbleWidth, Height: 16}))
		}
		fmt.Fprintln(w, dimStyle.Render(render.PointList(points, 20)))
	}

	if msg.TableData != nil {
		t := models.NewTable(msg.TableData)
		fmt.Fprintln(w, sectionTitleStyle.Render(fmt.Sprintf("Table · %d row(s)", len(t.Rows))))
		fmt.Fprintln(w, render.Table(t, render.TableOptions{Width: bubbleWidth}))
	}

	if msg.SQLQuery != "" {
		fmt.Fprintln(w, sectionTitleStyle.Render("SQL"))
		fmt.Fprintln(w, render.HighlightSQL(msg.SQLQuery))
	}
}

// writeJSON prints msg as indented JSON, or writes it to path when set
func writeJSON(w io.Writer, path string, msg models.Message) error {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}
	data = append(data, '\n')

	if path != "" {
		return writeOutput(path, string(data))
	}
	_, err = w.Write(data)
	return err
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
