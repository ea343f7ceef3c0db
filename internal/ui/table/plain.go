package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/ui/styles"
)

// WriteJSON writes the searched and sorted records (every page) as a JSON
// array. Objects list fields in the order given, defaulting to the column
// keys. Fields starting with "_" are synthetic and skipped.
func WriteJSON(w io.Writer, t *datatable.Table, fields []string) error {
	if len(fields) == 0 {
		for _, col := range t.Columns() {
			fields = append(fields, col.Key)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, rec := range t.Sorted() {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		n := 0
		for _, k := range fields {
			if strings.HasPrefix(k, "_") {
				continue
			}
			if n > 0 {
				buf.WriteString(", ")
			}
			key, _ := json.Marshal(k)
			val, err := json.Marshal(rec[k])
			if err != nil {
				return fmt.Errorf("encode field %s: %w", k, err)
			}
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
			n++
		}
		buf.WriteString("}")
	}
	if t.MatchCount() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteRaw writes the searched and sorted records as tab-separated rendered
// cells without styling, one line per record and no header.
func WriteRaw(w io.Writer, t *datatable.Table) error {
	cols := dataColumns(t.Columns())
	for _, rec := range t.Sorted() {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = escapeRaw(plainText(col.Cell(rec)))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// dataColumns drops columns with no field behind them (row actions)
func dataColumns(cols []datatable.Column) []datatable.Column {
	out := make([]datatable.Column, 0, len(cols))
	for _, col := range cols {
		if !strings.HasPrefix(col.Key, "_") {
			out = append(out, col)
		}
	}
	return out
}

func escapeRaw(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// WritePage prints the current page as an aligned table, followed by the
// caption and the pagination bar.
func WritePage(w io.Writer, t *datatable.Table) error {
	var sb strings.Builder

	cols := dataColumns(t.Columns())
	if len(cols) == 0 {
		fmt.Fprintln(w, "(no columns)")
		return nil
	}

	if t.Searchable() && t.SearchTerm() != "" {
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("%s %s", styles.SymbolSearch, t.SearchTerm())))
		sb.WriteString("\n")
	}

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = styles.Render(styles.HeaderStyle, HeaderLabel(col, t.Sort(), false))
	}

	body := t.Body()
	var rows []datatable.Row
	if body.Kind == datatable.BodyRows {
		rows = renderRows(cols, body.Rows)
	}

	// Plain output shows full content; only fixed-width columns truncate
	widths := ColumnWidths(cols, headers, rows, 0)

	writeLine(&sb, headers, widths)
	seps := make([]string, len(widths))
	for i, wd := range widths {
		seps[i] = strings.Repeat("─", wd)
	}
	writeLine(&sb, seps, widths)

	if body.Kind != datatable.BodyRows {
		sb.WriteString(styles.MutedMsg(body.Message))
		sb.WriteString("\n")
	}
	for _, row := range rows {
		writeLine(&sb, row.Cells, widths)
	}

	sb.WriteString("\n")
	if t.Searchable() {
		sb.WriteString(styles.MutedMsg(t.Caption()))
		sb.WriteString("\n")
	}
	if bar := PaginationBar(t); bar != "" {
		sb.WriteString(bar)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// renderRows re-renders body rows for cols, keeping each row's index
func renderRows(cols []datatable.Column, body []datatable.Row) []datatable.Row {
	rows := make([]datatable.Row, len(body))
	for i, row := range body {
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = col.Cell(row.Record)
		}
		rows[i] = datatable.Row{Record: row.Record, Cells: cells, Index: row.Index}
	}
	return rows
}

func writeLine(sb *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == len(cells)-1 {
			// No trailing padding on the last column
			sb.WriteString(FitCell(cell, min(widths[i], lipgloss.Width(cell))))
			continue
		}
		sb.WriteString(FitCell(cell, widths[i]))
	}
	sb.WriteString("\n")
}
