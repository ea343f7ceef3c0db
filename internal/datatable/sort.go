package datatable

import "slices"

// Direction is the order applied to the active sort column.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// SortState names the active sort column. A nil *SortState means input order.
type SortState struct {
	Key       string
	Direction Direction
}

// Sort returns records ordered by the value at state.Key. The sort is stable:
// records comparing equal keep their relative order. A nil state returns
// records unchanged. The input slice is never reordered in place.
func Sort(records []Record, state *SortState) []Record {
	if state == nil {
		return records
	}

	sorted := slices.Clone(records)
	key := state.Key
	desc := state.Direction == Descending

	slices.SortStableFunc(sorted, func(a, b Record) int {
		c := CompareValues(a[key], b[key])
		if desc {
			return -c
		}
		return c
	})
	return sorted
}

// NextSort computes the sort state produced by clicking the header of key.
// Clicking the active column flips its direction; any other sortable column
// becomes the new key in ascending order. Unknown or non-sortable columns
// leave current unchanged and report false.
func NextSort(columns []Column, current *SortState, key string) (*SortState, bool) {
	col, ok := findColumn(columns, key)
	if !ok || !col.Sortable {
		return current, false
	}
	if current != nil && current.Key == key {
		return &SortState{Key: key, Direction: current.Direction.Flip()}, true
	}
	return &SortState{Key: key, Direction: Ascending}, true
}
