// Package history exports the in-memory session transcript. Nothing is
// persisted between runs; an export is an explicit user action.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/floatchat/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format      ExportFormat
	Title       string
	Backend     string // backend chat URL, shown in the header
	IncludeData bool   // include tables, geo points and SQL
	Now         func() time.Time
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:      ExportFormatMarkdown,
		Title:       "floatchat session",
		IncludeData: true,
		Now:         time.Now,
	}
}

// FormatForPath picks the export format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// DefaultExportPath returns a timestamped file name in dir
func DefaultExportPath(dir string, format ExportFormat, now time.Time) string {
	ext := ".md"
	if format == ExportFormatJSON {
		ext = ".json"
	}
	return filepath.Join(dir, "floatchat-"+now.Format("20060102-150405")+ext)
}

// Export renders messages in the requested format
func Export(messages []models.Message, opts ExportOptions) ([]byte, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	switch opts.Format {
	case ExportFormatJSON:
		return exportJSON(messages, opts)
	case ExportFormatMarkdown, "":
		return []byte(exportMarkdown(messages, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
}

// WriteFile exports messages to path. The format follows the extension.
func WriteFile(path string, messages []models.Message, opts ExportOptions) error {
	opts.Format = FormatForPath(path)

	data, err := Export(messages, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func exportMarkdown(messages []models.Message, opts ExportOptions) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	if opts.Backend != "" {
		sb.WriteString("**Backend:** ")
		sb.WriteString(opts.Backend)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(opts.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		role := "User"
		if msg.IsAssistant() {
			role = "Assistant"
		}
		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if opts.IncludeData && msg.IsAssistant() {
			writeData(&sb, msg)
		}

		// Separator between messages (except last)
		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

func writeData(sb *strings.Builder, msg models.Message) {
	if msg.TableData != nil {
		sb.WriteString("\n### Table\n\n")
		sb.WriteString(MarkdownTable(models.NewTable(msg.TableData)))
	}

	if msg.GeoData != nil {
		points := models.GeoPoints(msg.GeoData)
		sb.WriteString(fmt.Sprintf("\n### Locations (%d)\n\n", len(points)))
		for _, p := range points {
			sb.WriteString("- ")
			sb.WriteString(p.Label())
			sb.WriteString("\n")
		}
	}

	if msg.SQLQuery != "" {
		sb.WriteString("\n### SQL\n\n```sql\n")
		sb.WriteString(strings.TrimRight(msg.SQLQuery, "\n"))
		sb.WriteString("\n```\n")
	}
}

// MarkdownTable renders a table as GitHub-flavored markdown
func MarkdownTable(t models.Table) string {
	if t.Headless() {
		return "_" + t.HeadlessText() + "_\n"
	}
	if t.Empty() {
		return "_no rows_\n"
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for _, c := range cells {
			sb.WriteString(" ")
			sb.WriteString(escapeCell(c))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(t.Columns)
	sb.WriteString("|")
	for range t.Columns {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

type exportMessage struct {
	Role      models.Role     `json:"role"`
	Content   string          `json:"content"`
	TableData []models.Record `json:"table_data"`
	GeoData   []models.Record `json:"geo_data"`
	SQLQuery  string          `json:"sql_query,omitempty"`
}

type exportTranscript struct {
	Title      string          `json:"title"`
	Backend    string          `json:"backend,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

func exportJSON(messages []models.Message, opts ExportOptions) ([]byte, error) {
	export := exportTranscript{
		Title:      opts.Title,
		Backend:    opts.Backend,
		ExportedAt: opts.Now(),
		Messages:   make([]exportMessage, len(messages)),
	}

	for i, msg := range messages {
		export.Messages[i] = exportMessage{Role: msg.Role, Content: msg.Content}
		if opts.IncludeData {
			export.Messages[i].TableData = msg.TableData
			export.Messages[i].GeoData = msg.GeoData
			export.Messages[i].SQLQuery = msg.SQLQuery
		}
	}

	return json.MarshalIndent(export, "", "  ")
}
