package datatable

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records where at least one field's text contains term,
// ignoring case. An empty term returns records unchanged. Nil and missing
// fields never match. The input slice is not modified.
func Filter(records []Record, term string) []Record {
	if term == "" {
		return records
	}

	fold := cases.Fold()
	needle := fold.String(term)

	result := make([]Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, needle, fold) {
			result = append(result, rec)
		}
	}
	return result
}

// Matches reports whether a single record passes the search filter for term.
func Matches(rec Record, term string) bool {
	if term == "" {
		return true
	}
	fold := cases.Fold()
	return matches(rec, fold.String(term), fold)
}

func matches(rec Record, needle string, fold cases.Caser) bool {
	for _, v := range rec {
		s, ok := FormatValue(v)
		if !ok {
			continue
		}
		if strings.Contains(fold.String(s), needle) {
			return true
		}
	}
	return false
}
