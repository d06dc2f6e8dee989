// Package output holds the uniform row shape shared by every command and the
// text formatter that renders it.
package output

import (
	"fmt"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

// NoData is printed for an empty row sequence.
const NoData = "No data to display."

// Field is one named cell of a row.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered mapping of column name to value.
type Row []Field

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Outcome is the result of one command: either rows or a message, never both.
// Notice is an optional informational line printed before the outcome.
type Outcome struct {
	rows      []Row
	message   string
	isMessage bool

	Notice string
}

// Rows builds a tabular outcome. A nil or empty slice is a valid, empty result.
func Rows(rows []Row) Outcome {
	return Outcome{rows: rows}
}

// Message builds a plain text outcome.
func Message(msg string) Outcome {
	return Outcome{message: msg, isMessage: true}
}

// IsMessage reports whether the outcome carries a message instead of rows.
func (o Outcome) IsMessage() bool { return o.isMessage }

// Text returns the message of a message outcome.
func (o Outcome) Text() string { return o.message }

// Data returns the rows of a tabular outcome.
func (o Outcome) Data() []Row { return o.rows }

// Format renders an outcome. Messages pass through unchanged, an empty row
// sequence becomes NoData, anything else is a pipe table headed by the first
// row's column names.
func Format(o Outcome) string {
	if o.isMessage {
		return o.message
	}
	if len(o.rows) == 0 {
		return NoData
	}

	t := prettytable.NewWriter()

	header := prettytable.Row{}
	for _, name := range o.rows[0].Names() {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for _, row := range o.rows {
		cells := make(prettytable.Row, len(row))
		for i, f := range row {
			cells[i] = cellValue(f.Value)
		}
		t.AppendRow(cells)
	}

	return t.RenderMarkdown()
}

func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return fmt.Sprintf("%x", val)
	default:
		return val
	}
}
