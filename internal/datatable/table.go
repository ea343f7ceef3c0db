package datatable

import "slices"

// ViewState is the mutable part of a table: everything else is input.
type ViewState struct {
	Page   int // 1-based
	Search string
	Sort   *SortState
}

// Option configures a Table at construction.
type Option func(*Table)

// WithPageSize sets the number of rows per page. Non-positive sizes keep the
// default of 10.
func WithPageSize(size int) Option {
	return func(t *Table) {
		if size > 0 {
			t.pageSize = size
		}
	}
}

// WithSearchable toggles the search box. A table that is not searchable always
// uses an empty search term.
func WithSearchable(searchable bool) Option {
	return func(t *Table) { t.searchable = searchable }
}

// WithLoading sets the initial loading flag.
func WithLoading(loading bool) Option {
	return func(t *Table) { t.loading = loading }
}

// WithMessages overrides the rendered strings.
func WithMessages(m Messages) Option {
	return func(t *Table) { t.messages = m }
}

// Table is a searchable, sortable, paginated view over a list of records.
//
// The displayed rows are a pure function of the records, the columns and the
// ViewState; the filtered and sorted stages are cached and the cache is keyed
// on everything they depend on. A Table is not safe for concurrent use.
type Table struct {
	columns    []Column
	records    []Record
	loading    bool
	pageSize   int
	searchable bool
	messages   Messages

	state ViewState

	gen   uint64 // bumped whenever records change
	cache derived
}

type derived struct {
	filterValid bool
	filterGen   uint64
	filterTerm  string
	filtered    []Record

	sortValid bool
	sortGen   uint64
	sortTerm  string
	sortKey   SortState
	sortNil   bool
	sorted    []Record
}

// New creates a table over records. The records slice is never modified.
// Searched and sorted results are cached, so a caller that changes records
// in place must hand them over again with SetRecords.
func New(columns []Column, records []Record, opts ...Option) *Table {
	t := &Table{
		columns:    slices.Clone(columns),
		records:    records,
		pageSize:   DefaultPageSize,
		searchable: true,
		messages:   MessagesFor("en"),
		state:      ViewState{Page: 1},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ═══════════════════════════════════════════════════════════════════════════
// Accessors
// ═══════════════════════════════════════════════════════════════════════════

func (t *Table) Columns() []Column  { return t.columns }
func (t *Table) Records() []Record  { return t.records }
func (t *Table) Loading() bool      { return t.loading }
func (t *Table) PageSize() int      { return t.pageSize }
func (t *Table) Searchable() bool   { return t.searchable }
func (t *Table) Messages() Messages { return t.messages }
func (t *Table) Page() int          { return t.state.Page }
func (t *Table) SearchTerm() string { return t.state.Search }
func (t *Table) Sort() *SortState   { return copySort(t.state.Sort) }

// State returns a copy of the view state.
func (t *Table) State() ViewState {
	return ViewState{Page: t.state.Page, Search: t.state.Search, Sort: t.Sort()}
}

// TotalPages is the page count of the filtered records, at least 1.
func (t *Table) TotalPages() int {
	return TotalPages(len(t.Sorted()), t.pageSize)
}

// MatchCount is the number of records passing the search.
func (t *Table) MatchCount() int {
	return len(t.Sorted())
}

// HasPrev reports whether the Previous control is enabled.
func (t *Table) HasPrev() bool {
	return t.state.Page > 1
}

// HasNext reports whether the Next control is enabled.
func (t *Table) HasNext() bool {
	return t.state.Page < t.TotalPages()
}

// ShowPagination reports whether pagination controls are drawn at all.
func (t *Table) ShowPagination() bool {
	return t.TotalPages() > 1
}

// ═══════════════════════════════════════════════════════════════════════════
// Transitions
// ═══════════════════════════════════════════════════════════════════════════

// Search sets the search term and resets to page 1, since the result set
// changes composition. It does nothing on a table that is not searchable.
func (t *Table) Search(term string) {
	if !t.searchable {
		return
	}
	t.state.Search = term
	t.state.Page = 1
}

// ClickHeader applies a header click on column key: the active column flips
// direction, another sortable column becomes the ascending key. Any sort change
// resets to page 1. Returns false when the column is unknown or not sortable.
func (t *Table) ClickHeader(key string) bool {
	next, changed := NextSort(t.columns, t.state.Sort, key)
	if !changed {
		return false
	}
	t.state.Sort = next
	t.state.Page = 1
	return true
}

// SetSort replaces the sort state directly. A nil state restores input order.
// A state naming an unknown or non-sortable column is rejected. Like a header
// click, an accepted change resets to page 1.
func (t *Table) SetSort(state *SortState) bool {
	if state != nil {
		col, ok := findColumn(t.columns, state.Key)
		if !ok || !col.Sortable {
			return false
		}
	}
	t.state.Sort = copySort(state)
	t.state.Page = 1
	return true
}

// GoToPage moves to page, clamped to 1..TotalPages. Search and sort are left
// untouched.
func (t *Table) GoToPage(page int) {
	t.state.Page = clamp(page, 1, t.TotalPages())
}

func (t *Table) NextPage()  { t.GoToPage(t.state.Page + 1) }
func (t *Table) PrevPage()  { t.GoToPage(t.state.Page - 1) }
func (t *Table) FirstPage() { t.GoToPage(1) }
func (t *Table) LastPage()  { t.GoToPage(t.TotalPages()) }

// SetRecords replaces the input records. The current page is kept, but
// clamped down when the new result set has fewer pages. It also drops the
// cached search and sort results, so call it after changing records in place.
func (t *Table) SetRecords(records []Record) {
	t.records = records
	t.gen++
	t.clampPage()
}

// SetColumns replaces the column set. If the active sort column is gone or no
// longer sortable, the sort is dropped, which counts as a sort change.
func (t *Table) SetColumns(columns []Column) {
	t.columns = slices.Clone(columns)
	if s := t.state.Sort; s != nil {
		if col, ok := findColumn(t.columns, s.Key); !ok || !col.Sortable {
			t.state.Sort = nil
			t.state.Page = 1
		}
	}
}

// SetLoading toggles the loading indicator.
func (t *Table) SetLoading(loading bool) {
	t.loading = loading
}

// SetPageSize changes the rows per page and clamps the current page.
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	t.pageSize = size
	t.clampPage()
}

func (t *Table) clampPage() {
	if total := t.TotalPages(); t.state.Page > total {
		t.state.Page = total
	}
	if t.state.Page < 1 {
		t.state.Page = 1
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Derived stages
// ═══════════════════════════════════════════════════════════════════════════

func (t *Table) effectiveTerm() string {
	if !t.searchable {
		return ""
	}
	return t.state.Search
}

// Filtered returns the records that pass the current search term.
func (t *Table) Filtered() []Record {
	term := t.effectiveTerm()
	c := &t.cache
	if c.filterValid && c.filterGen == t.gen && c.filterTerm == term {
		return c.filtered
	}
	c.filtered = Filter(t.records, term)
	c.filterValid = true
	c.filterGen = t.gen
	c.filterTerm = term
	c.sortValid = false
	return c.filtered
}

// Sorted returns the filtered records in the current sort order.
func (t *Table) Sorted() []Record {
	filtered := t.Filtered()
	term := t.effectiveTerm()
	c := &t.cache
	s := t.state.Sort
	if c.sortValid && c.sortGen == t.gen && c.sortTerm == term && sameSort(c, s) {
		return c.sorted
	}
	c.sorted = Sort(filtered, s)
	c.sortValid = true
	c.sortGen = t.gen
	c.sortTerm = term
	c.sortNil = s == nil
	if s != nil {
		c.sortKey = *s
	}
	return c.sorted
}

func sameSort(c *derived, s *SortState) bool {
	if s == nil {
		return c.sortNil
	}
	return !c.sortNil && c.sortKey == *s
}

// Current returns the records on the current page. If the page lies past the
// end (possible only through direct state manipulation), it is empty.
func (t *Table) Current() []Record {
	return Paginate(t.Sorted(), t.state.Page, t.pageSize)
}

// Caption describes the visible range, e.g. "Showing 11 - 20 of 42 records".
func (t *Table) Caption() string {
	n := len(t.Sorted())
	start := (t.state.Page - 1) * t.pageSize
	return t.messages.caption(min(start+1, n), min(start+t.pageSize, n), n)
}

// Window returns the numbered page buttons for the current page.
func (t *Table) Window() []PageItem {
	return PageWindow(t.state.Page, t.TotalPages())
}

// ═══════════════════════════════════════════════════════════════════════════
// Body
// ═══════════════════════════════════════════════════════════════════════════

// BodyKind says which of the three mutually exclusive bodies to draw.
type BodyKind int

const (
	BodyRows BodyKind = iota
	BodyLoading
	BodyEmpty
)

// Row is one rendered data row.
type Row struct {
	Record Record
	Cells  []string // one per column, in column order
	Index  int      // position within the sorted, filtered records
}

// Body is the table body: either a single spanning message (loading, empty)
// or the rendered rows of the current page.
type Body struct {
	Kind    BodyKind
	Message string
	Rows    []Row
}

// Body renders the current page. Loading supersedes both the empty state and
// the data rows.
func (t *Table) Body() Body {
	if t.loading {
		return Body{Kind: BodyLoading, Message: t.messages.Loading}
	}
	page := t.Current()
	if len(page) == 0 {
		return Body{Kind: BodyEmpty, Message: t.messages.Empty}
	}

	offset := (t.state.Page - 1) * t.pageSize
	rows := make([]Row, len(page))
	for i, rec := range page {
		cells := make([]string, len(t.columns))
		for j, col := range t.columns {
			cells[j] = col.Cell(rec)
		}
		rows[i] = Row{Record: rec, Cells: cells, Index: offset + i}
	}
	return Body{Kind: BodyRows, Rows: rows}
}

func copySort(s *SortState) *SortState {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
