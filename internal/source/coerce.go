package source

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/portal-erp/erptable/internal/cells"
	"github.com/portal-erp/erptable/internal/datatable"
)

// Column types accepted by Coerce
const (
	TypeNumber  = "number"
	TypeDecimal = "decimal"
	TypeDate    = "date"
	TypeString  = "string"
)

// Coerce returns copies of records with typed fields converted: "number" to
// int64 (or decimal when fractional), "decimal" to decimal, "date" to
// time.Time, "string" to text. A value that does not parse is kept as is, so
// one bad cell never hides a row. The input records are not modified.
//
// locale settles amounts with a single separator and three digits after it:
// "1,234" is 1234 in "en" and 1.234 in "pt-BR", "1.234" the other way round.
func Coerce(records []datatable.Record, types map[string]string, locale string) []datatable.Record {
	if len(types) == 0 {
		return records
	}
	out := make([]datatable.Record, len(records))
	for i, rec := range records {
		cp := make(datatable.Record, len(rec))
		for k, v := range rec {
			if typ, ok := types[k]; ok {
				v = coerceValue(v, typ, locale)
			}
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

func coerceValue(v any, typ, locale string) any {
	if v == nil {
		return nil
	}
	switch typ {
	case TypeNumber:
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
		}
		if d, ok := parseAmount(v, locale); ok {
			if d.IsInteger() {
				return d.IntPart()
			}
			return d
		}
	case TypeDecimal:
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return nil
		}
		if d, ok := parseAmount(v, locale); ok {
			return d
		}
	case TypeDate:
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return nil
		}
		if t, ok := cells.ParseTime(v); ok {
			return t
		}
	case TypeString:
		s, _ := datatable.FormatValue(v)
		return s
	}
	return v
}

// parseAmount reads numbers in either notation: "1234.56", "1,234.56" and
// the Brazilian "1.234,56" all give 1234.56. When only one kind of separator
// appears once with exactly three digits after it, locale decides whether it
// groups thousands.
func parseAmount(v any, locale string) (decimal.Decimal, bool) {
	s, ok := v.(string)
	if !ok {
		return datatable.AsDecimal(v)
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)

	ptBR := strings.EqualFold(locale, "pt-BR")
	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		// the later mark is the decimal separator
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 || (!ptBR && thousandsGroup(s, comma)) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0:
		if strings.Count(s, ".") > 1 || (ptBR && thousandsGroup(s, dot)) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	return d, err == nil
}

// thousandsGroup reports whether the separator at i is followed by exactly
// three digits
func thousandsGroup(s string, i int) bool {
	rest := s[i+1:]
	if len(rest) != 3 {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
