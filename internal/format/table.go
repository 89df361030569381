// Package format renders thread data as terminal or Markdown tables for the
// command-line client.
package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Box-drawn terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Align specifies the horizontal alignment for a column.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Column controls per-column formatting.
type Column struct {
	Number   int   // 1-based column index
	Align    Align // horizontal alignment
	MaxWidth int   // wrap content beyond this width (0 = unlimited)
}

// Table is built once and rendered in the Mode chosen at creation.
type Table interface {
	Title(title string)
	Header(cols ...string)
	// Row appends a data row. Values are converted with fmt.Sprint.
	Row(vals ...any)
	Footer(vals ...any)
	Columns(cols ...Column)
	String() string
}

// NewTable returns a Table that renders in the given Mode.
func NewTable(m Mode) Table {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &prettyTable{writer: w, mode: m}
}

type prettyTable struct {
	writer table.Writer
	mode   Mode
}

func (t *prettyTable) Title(title string) {
	t.writer.SetTitle(title)
}

func (t *prettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

func (t *prettyTable) Row(vals ...any) {
	t.writer.AppendRow(table.Row(vals))
}

func (t *prettyTable) Footer(vals ...any) {
	t.writer.AppendFooter(table.Row(vals))
}

func (t *prettyTable) Columns(cols ...Column) {
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		configs[i] = table.ColumnConfig{
			Number:   c.Number,
			Align:    textAlign(c.Align),
			WidthMax: c.MaxWidth,
		}
	}
	t.writer.SetColumnConfigs(configs)
}

func (t *prettyTable) String() string {
	if t.mode == Markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}

func textAlign(a Align) text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignRight:
		return text.AlignRight
	case AlignCenter:
		return text.AlignCenter
	default:
		return text.AlignDefault
	}
}
