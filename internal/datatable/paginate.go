package datatable

// DefaultPageSize is used when a table is created without a page size.
const DefaultPageSize = 10

// maxVisiblePages bounds the numbered buttons in a page window.
const maxVisiblePages = 5

// TotalPages returns ceil(n/size), and at least 1 even when n is 0.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the slice of records on the 1-based page. Pages past the
// end, or below 1, are empty. The returned slice shares the input's backing
// array and must not be appended to.
func Paginate(records []Record, page, size int) []Record {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(records) {
		return nil
	}
	end := min(start+size, len(records))
	return records[start:end:end]
}

// PageItemKind tells a pagination control what to draw.
type PageItemKind int

const (
	PageNumber PageItemKind = iota
	PageEllipsis
)

// PageItem is one entry of a pagination control between Previous and Next.
type PageItem struct {
	Kind   PageItemKind
	Page   int  // target page for PageNumber items
	Active bool // true for the current page
}

// PageWindow returns the numbered buttons for the pagination control: at most
// five pages centred on current and slid to stay inside 1..total, with the
// first and last page prepended or appended (plus an ellipsis when pages are
// skipped).
func PageWindow(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	current = clamp(current, 1, total)

	start := max(1, current-maxVisiblePages/2)
	end := min(total, start+maxVisiblePages-1)
	if end-start < maxVisiblePages-1 {
		start = max(1, end-maxVisiblePages+1)
	}

	var items []PageItem
	number := func(p int) PageItem {
		return PageItem{Kind: PageNumber, Page: p, Active: p == current}
	}

	if start > 1 {
		items = append(items, number(1))
		if start > 2 {
			items = append(items, PageItem{Kind: PageEllipsis})
		}
	}
	for p := start; p <= end; p++ {
		items = append(items, number(p))
	}
	if end < total {
		if end < total-1 {
			items = append(items, PageItem{Kind: PageEllipsis})
		}
		items = append(items, number(total))
	}
	return items
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
