package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// SQLStyle is the chroma style used for query highlighting
const SQLStyle = "monokai"

// HighlightSQL applies terminal syntax highlighting to a SQL query.
// On any highlighting failure the query is returned unchanged.
func HighlightSQL(query string) string {
	query = strings.TrimRight(query, "\n")
	if query == "" {
		return ""
	}

	lexer := lexers.Get("sql")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(SQLStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, query)
	if err != nil {
		return query
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return query
	}
	return strings.TrimRight(buf.String(), "\n")
}
