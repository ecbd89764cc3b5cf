package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type tableOptions struct {
	// rightAligned lists zero-based column indexes rendered flush right.
	rightAligned []int
	// maxWidth caps individual columns; zero means unlimited.
	maxWidth map[int]int
	footer   []string
}

func renderTable(headers []string, rows [][]string, opts tableOptions) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(opts.footer) > 0 {
		tw.AppendFooter(toRow(opts.footer, columns))
	}

	right := make(map[int]bool, len(opts.rightAligned))
	for _, idx := range opts.rightAligned {
		right[idx] = true
	}
	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    opts.maxWidth[i],
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := range columns {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
