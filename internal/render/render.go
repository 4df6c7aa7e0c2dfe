package render

import (
	"strings"

	"github.com/diogo/floatchat/internal/logging"
)

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer for better performance and thread safety.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Reply renders assistant text, falling back to the raw text when the
// markdown renderer cannot be built
func Reply(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		logging.Logger().Debug("markdown render failed", "err", err, "style", opts.Style)
		return content
	}
	return strings.Trim(out, "\n")
}
