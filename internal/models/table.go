package models

import "fmt"

// Table is the display form of tabular results
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from records. Columns are the keys of the first
// record; every record becomes a row, with cells aligned to those columns.
// Keys a row lacks render as empty cells.
func NewTable(records []Record) Table {
	if len(records) == 0 {
		return Table{}
	}

	t := Table{Columns: records[0].Keys()}
	t.Rows = make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			if v, ok := r.Get(col); ok {
				row[i] = FormatValue(v)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Empty reports whether the table has no columns
func (t Table) Empty() bool {
	return len(t.Columns) == 0
}

// Headless reports whether rows exist but the first record had no keys,
// so no column could be derived
func (t Table) Headless() bool {
	return t.Empty() && len(t.Rows) > 0
}

// HeadlessText describes a headless table
func (t Table) HeadlessText() string {
	return fmt.Sprintf("%d row(s) returned, but the first row has no columns.", len(t.Rows))
}
