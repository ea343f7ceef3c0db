// Package datatable implements a searchable, sortable, paginated view over a
// list of loosely shaped records.
//
// Records flow through three pure stages: a case-insensitive substring filter
// across every field, a stable comparator sort on one column, and a page slice.
// Table wraps those stages with the view state a user drives (search term,
// sort column and direction, current page) and exposes each state change as a
// named transition:
//
//   - Search resets to page 1.
//   - ClickHeader and SetSort reset to page 1.
//   - Page navigation touches only the page.
//   - SetRecords and SetPageSize keep the page, clamped to the new page count.
//
// The package does no I/O; rendering is left to the caller through Body,
// Caption and Window.
package datatable
