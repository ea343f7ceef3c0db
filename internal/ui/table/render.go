package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/ui/styles"
)

// ═══════════════════════════════════════════════════════════════════════════
// Headers
// ═══════════════════════════════════════════════════════════════════════════

// HeaderLabel returns a column header with its sort marker: ▲ or ▼ on the
// active column, and ↕ on idle sortable columns when showIdle is set.
func HeaderLabel(col datatable.Column, sort *datatable.SortState, showIdle bool) string {
	label := col.Header
	switch {
	case sort != nil && sort.Key == col.Key:
		arrow := styles.SymbolSortAsc
		if sort.Direction == datatable.Descending {
			arrow = styles.SymbolSortDesc
		}
		label = joinNonEmpty(label, styles.Render(styles.SortActiveStyle, arrow))
	case col.Sortable && showIdle:
		label = joinNonEmpty(label, styles.Render(styles.SortIdleStyle, styles.SymbolSortIdle))
	}
	return label
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination
// ═══════════════════════════════════════════════════════════════════════════

// PaginationBar renders "‹ 1 … 4 [5] 6 … 10 ›". It is empty when the table
// fits on one page.
func PaginationBar(t *datatable.Table) string {
	if !t.ShowPagination() {
		return ""
	}

	parts := []string{navSymbol(styles.SymbolPrev, t.HasPrev())}
	for _, item := range t.Window() {
		switch {
		case item.Kind == datatable.PageEllipsis:
			parts = append(parts, styles.MutedMsg(styles.SymbolEllipsis))
		case item.Active:
			parts = append(parts, styles.Render(styles.PageActiveStyle, fmt.Sprintf("[%d]", item.Page)))
		default:
			parts = append(parts, fmt.Sprint(item.Page))
		}
	}
	parts = append(parts, navSymbol(styles.SymbolNext, t.HasNext()))
	return strings.Join(parts, " ")
}

func navSymbol(symbol string, enabled bool) string {
	if enabled {
		return styles.Render(styles.HelpKey, symbol)
	}
	return styles.Render(styles.SortIdleStyle, symbol)
}

// ═══════════════════════════════════════════════════════════════════════════
// ANSI-aware cell layout
// ═══════════════════════════════════════════════════════════════════════════

// FitCell pads or truncates s to exactly width terminal cells. Styled text is
// measured and cut without breaking escape sequences.
func FitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		s = ansi.Truncate(s, width, styles.SymbolEllipsis)
		w = lipgloss.Width(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// ColumnWidths measures each column over the header labels and rendered
// cells. Columns with a fixed Width keep it; automatic columns are capped at
// maxWidth when maxWidth > 0.
func ColumnWidths(cols []datatable.Column, headers []string, rows []datatable.Row, maxWidth int) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		w := lipgloss.Width(headers[i])
		for _, row := range rows {
			if cw := lipgloss.Width(row.Cells[i]); cw > w {
				w = cw
			}
		}
		if maxWidth > 0 && w > maxWidth {
			w = maxWidth
		}
		widths[i] = max(w, 1)
	}
	return widths
}

// plainText strips styling, for clipboard and raw output
func plainText(s string) string {
	return ansi.Strip(s)
}
