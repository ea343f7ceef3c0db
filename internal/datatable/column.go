package datatable

// CellRenderer turns a raw cell value into display text. It receives the whole
// record so a cell can be derived from other fields.
type CellRenderer func(value any, row Record) string

// Column describes one visible column.
type Column struct {
	Key      string // field read from each record
	Header   string // display header
	Sortable bool   // whether clicking the header changes the sort
	Width    int    // fixed display width in cells; 0 means automatic
	Render   CellRenderer
}

// Cell returns the display text of this column for row.
func (c Column) Cell(row Record) string {
	value := row[c.Key]
	if c.Render != nil {
		return c.Render(value, row)
	}
	s, _ := FormatValue(value)
	return s
}

func findColumn(columns []Column, key string) (Column, bool) {
	for _, col := range columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}
