package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	var out bytes.Buffer
	tbl := NewTable(&out, table.Row{"Category", "Total"}, 2)
	tbl.AppendRow(table.Row{"Food & Dining", "$12.50"})
	tbl.AppendFooter(table.Row{"Total", "$12.50"})
	tbl.Render()

	rendered := out.String()
	assert.Contains(t, rendered, "Category")
	assert.Contains(t, rendered, "Food & Dining")
	assert.Contains(t, rendered, "╭")
	assert.Equal(t, 2, strings.Count(rendered, "$12.50"))
}

func TestStageProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewStageProgress(&out, "Processing receipt")
	p.Update("Extracting text", 35)
	p.Update("Done", 150)
	p.Finish()

	assert.Contains(t, out.String(), "Extracting text")
}
