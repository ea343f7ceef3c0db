package datatable

import (
	"encoding/json"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// randomRecords builds n records with distinct ids and loosely varied fields.
func randomRecords(rng *rand.Rand, n int) []Record {
	words := []string{"Parafuso", "porca", "ARRUELA", "cabo", "Luva", "óleo", "Óleo diesel", "fita"}
	perm := rng.Perm(n)
	records := make([]Record, n)
	for i := range records {
		r := Record{
			"id":   perm[i] + 1,
			"name": words[rng.Intn(len(words))],
		}
		if rng.Intn(3) == 0 {
			r["price"] = rng.Float64() * 100
		}
		if rng.Intn(4) == 0 {
			r["note"] = nil
		}
		records[i] = r
	}
	return records
}

func TestFilter_Membership(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := []string{"o", "ÓLEO", "parafuso", "1", "zzz", ".", "Luva"}

	for round := 0; round < 20; round++ {
		records := randomRecords(rng, 40)
		for _, term := range terms {
			kept := Filter(records, term)
			keptSet := make(map[int]bool)
			for _, r := range kept {
				keptSet[r["id"].(int)] = true
				if !anyFieldContains(r, term) {
					t.Fatalf("record %v kept for %q but no field matches", r, term)
				}
			}
			for _, r := range records {
				if !keptSet[r["id"].(int)] && anyFieldContains(r, term) {
					t.Fatalf("record %v excluded for %q but a field matches", r, term)
				}
			}
		}
	}
}

// anyFieldContains is an independent oracle for the filter.
func anyFieldContains(r Record, term string) bool {
	for _, v := range r {
		s, ok := FormatValue(v)
		if ok && strings.Contains(strings.ToLower(s), strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func TestFilter_EmptyTermIsIdentity(t *testing.T) {
	records := []Record{{"a": 1}, {"a": 2}}
	got := Filter(records, "")
	if len(got) != 2 || &got[0] != &records[0] {
		t.Fatal("empty term should return the input unchanged")
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	records := []Record{{"id": 1, "n": "ab"}, {"id": 2, "n": "x"}, {"id": 3, "n": "AB"}, {"id": 4, "n": "cab"}}
	got := ids(Filter(records, "ab"))
	if !slices.Equal(got, []int{1, 3, 4}) {
		t.Fatalf("got %v, want [1 3 4]", got)
	}
}

func TestFilter_NonStringValues(t *testing.T) {
	when := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	records := []Record{
		{"id": 1, "v": 1234.5},
		{"id": 2, "v": decimal.RequireFromString("99.90")},
		{"id": 3, "v": when},
		{"id": 4, "v": true},
		{"id": 5, "v": json.Number("42")},
		{"id": 6, "v": nil},
	}
	cases := []struct {
		term string
		want []int
	}{
		{"234.5", []int{1}},
		{"99.9", []int{2}},
		{"2025-03-14", []int{3}},
		{"TRUE", []int{4}},
		{"42", []int{5}},
		{"nil", nil},
		{"<nil>", nil},
	}
	for _, tc := range cases {
		got := ids(Filter(records, tc.term))
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !slices.Equal(got, tc.want) {
			t.Errorf("term %q: got %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestSort_NilStateIsIdentity(t *testing.T) {
	records := []Record{{"id": 2}, {"id": 1}}
	got := Sort(records, nil)
	if !slices.Equal(ids(got), []int{2, 1}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestSort_AscDescReverseWithoutTies(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 25; round++ {
		records := randomRecords(rng, 30)
		asc := Sort(records, &SortState{Key: "id", Direction: Ascending})
		desc := Sort(records, &SortState{Key: "id", Direction: Descending})

		reversed := slices.Clone(ids(desc))
		slices.Reverse(reversed)
		if !slices.Equal(ids(asc), reversed) {
			t.Fatalf("desc is not the reverse of asc:\n  asc:  %v\n  desc: %v", ids(asc), ids(desc))
		}

		again := Sort(asc, &SortState{Key: "id", Direction: Ascending})
		if !slices.Equal(ids(asc), ids(again)) {
			t.Fatal("sorting ascending twice is not idempotent")
		}
	}
}

func TestSort_StableOnTies(t *testing.T) {
	records := []Record{
		{"id": 1, "grp": "b"},
		{"id": 2, "grp": "a"},
		{"id": 3, "grp": "b"},
		{"id": 4, "grp": "a"},
		{"id": 5, "grp": "b"},
	}
	asc := Sort(records, &SortState{Key: "grp", Direction: Ascending})
	if got := ids(asc); !slices.Equal(got, []int{2, 4, 1, 3, 5}) {
		t.Fatalf("asc: got %v", got)
	}
	desc := Sort(records, &SortState{Key: "grp", Direction: Descending})
	if got := ids(desc); !slices.Equal(got, []int{1, 3, 5, 2, 4}) {
		t.Fatalf("desc: got %v", got)
	}
}

func TestSort_MissingFieldDoesNotPanic(t *testing.T) {
	records := []Record{{"id": 1}, {"id": 2, "x": 5}, {"id": 3, "x": nil}, {"id": 4, "x": 1}}
	got := Sort(records, &SortState{Key: "x"})
	if len(got) != 4 {
		t.Fatalf("lost records: %v", ids(got))
	}
	got = Sort(records, &SortState{Key: "nope", Direction: Descending})
	if !slices.Equal(ids(got), []int{1, 2, 3, 4}) {
		t.Fatalf("sorting by an absent key should keep input order, got %v", ids(got))
	}
}

func TestSort_DoesNotReorderInput(t *testing.T) {
	records := []Record{{"id": 3}, {"id": 1}, {"id": 2}}
	Sort(records, &SortState{Key: "id"})
	if !slices.Equal(ids(records), []int{3, 1, 2}) {
		t.Fatalf("input reordered: %v", ids(records))
	}
}

func TestCompareValues(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		a, b any
		want int
	}{
		{1, 2, -1},
		{10, 9, 1},
		{int64(5), 5.0, 0},
		{2.5, decimal.RequireFromString("2.50"), 0},
		{json.Number("10"), 9, 1},
		{uint8(3), int32(-3), 1},
		{"apple", "banana", -1},
		{"b", "B", 1},
		{"10", 9, 1},
		{t0, t0.Add(time.Hour), -1},
		{false, true, -1},
		{true, true, 0},
		{nil, 5, 0},
		{"x", nil, 0},
		{"abc", 5, 1},
	}
	for _, tc := range cases {
		got := CompareValues(tc.a, tc.b)
		if sign(got) != tc.want {
			t.Errorf("CompareValues(%#v, %#v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{nil, "", false},
		{"x", "x", true},
		{2, "2", true},
		{2.0, "2", true},
		{1.25, "1.25", true},
		{int16(-7), "-7", true},
		{uint64(18), "18", true},
		{decimal.RequireFromString("1234.50"), "1234.5", true},
		{time.Time{}, "", false},
		{[]int{1, 2}, "[1 2]", true},
	}
	for _, tc := range cases {
		got, ok := FormatValue(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FormatValue(%#v) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ n, size, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 2, 3},
		{7, 0, 1},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.n, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.n, tc.size, got, tc.want)
		}
	}
}

func TestPaginate_PagesReconstructList(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for size := 1; size <= 7; size++ {
			records := numbered(n)
			total := TotalPages(n, size)

			var joined []Record
			for page := 1; page <= total; page++ {
				p := Paginate(records, page, size)
				if len(p) > size {
					t.Fatalf("n=%d size=%d page=%d: %d items", n, size, page, len(p))
				}
				if page < total && len(p) != size {
					t.Fatalf("n=%d size=%d page=%d: non-final page has %d items", n, size, page, len(p))
				}
				joined = append(joined, p...)
			}
			if !slices.Equal(ids(joined), ids(records)) {
				t.Fatalf("n=%d size=%d: pages do not reconstruct the list", n, size)
			}
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	records := numbered(5)
	if p := Paginate(records, 4, 2); len(p) != 0 {
		t.Fatalf("page past end returned %d items", len(p))
	}
	if p := Paginate(records, 0, 2); len(p) != 0 {
		t.Fatalf("page 0 returned %d items", len(p))
	}
}

// windowString renders a page window like "1 … 4 [5] 6 … 20".
func windowString(items []PageItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		switch {
		case it.Kind == PageEllipsis:
			parts[i] = "…"
		case it.Active:
			parts[i] = "[" + itoa(it.Page) + "]"
		default:
			parts[i] = itoa(it.Page)
		}
	}
	return strings.Join(parts, " ")
}

func itoa(n int) string {
	s, _ := FormatValue(n)
	return s
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           string
	}{
		{1, 1, "[1]"},
		{1, 3, "[1] 2 3"},
		{3, 5, "1 2 [3] 4 5"},
		{1, 10, "[1] 2 3 4 5 … 10"},
		{3, 10, "1 2 [3] 4 5 … 10"},
		{4, 10, "1 2 3 [4] 5 6 … 10"},
		{5, 10, "1 … 3 4 [5] 6 7 … 10"},
		{7, 10, "1 … 5 6 [7] 8 9 10"},
		{10, 10, "1 … 6 7 8 9 [10]"},
		{6, 6, "1 2 3 4 5 [6]"},
		{12, 6, "1 2 3 4 5 [6]"},
	}
	for _, tc := range cases {
		got := windowString(PageWindow(tc.current, tc.total))
		if got != tc.want {
			t.Errorf("PageWindow(%d, %d) = %q, want %q", tc.current, tc.total, got, tc.want)
		}
	}
}

func TestPageWindow_NeverExceedsFiveNumberedInWindow(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			items := PageWindow(current, total)
			numbered := 0
			for _, it := range items {
				if it.Kind == PageNumber {
					numbered++
					if it.Page < 1 || it.Page > total {
						t.Fatalf("page %d outside 1..%d", it.Page, total)
					}
				}
			}
			// window of five plus the first and last pages
			if numbered > 7 {
				t.Fatalf("current=%d total=%d: %d numbered items", current, total, numbered)
			}
		}
	}
}
