package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxColumnWidth keeps long titles and error messages from wrapping the terminal.
const maxColumnWidth = 48

// tableBuilder accumulates rows for a rounded go-pretty table. Rows shorter
// than the header are padded with empty cells.
type tableBuilder struct {
	headers []string
	right   map[int]bool
	rows    []table.Row
}

func newTable(headers ...string) *tableBuilder {
	return &tableBuilder{headers: headers, right: map[int]bool{}}
}

// alignRight right-aligns the given zero-based columns.
func (b *tableBuilder) alignRight(columns ...int) *tableBuilder {
	for _, c := range columns {
		b.right[c] = true
	}
	return b
}

func (b *tableBuilder) row(cells ...string) {
	row := make(table.Row, len(b.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	b.rows = append(b.rows, row)
}

func (b *tableBuilder) count() int { return len(b.rows) }

func (b *tableBuilder) String() string {
	if len(b.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(b.headers))
	configs := make([]table.ColumnConfig, len(b.headers))
	for i, h := range b.headers {
		header[i] = h
		align := text.AlignLeft
		if b.right[i] {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         maxColumnWidth,
			WidthMaxEnforcer: text.Trim,
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(b.rows)
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
