package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable returns a rounded go-pretty table mirrored to w. Columns listed in
// rightAlign (1-based) are right aligned.
func NewTable(w io.Writer, header table.Row, rightAlign ...int) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault

	if len(rightAlign) > 0 {
		configs := make([]table.ColumnConfig, 0, len(rightAlign))
		for _, n := range rightAlign {
			configs = append(configs, table.ColumnConfig{
				Number:      n,
				Align:       text.AlignRight,
				AlignFooter: text.AlignRight,
			})
		}
		t.SetColumnConfigs(configs)
	}
	return t
}

// Highlight colors s green for table cells.
func Highlight(s string) string {
	return text.FgGreen.Sprint(s)
}

// Dim colors s gray for table cells.
func Dim(s string) string {
	return text.FgHiBlack.Sprint(s)
}
