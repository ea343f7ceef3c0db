// Package cells builds datatable cell renderers from the short names used in
// view definitions ("code", "badge", "date", "currency", "coalesce:A,B").
package cells

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/ui/styles"
	"github.com/portal-erp/erptable/internal/util"
)

// Options tune locale-dependent renderers.
type Options struct {
	Locale         string // "en" or "pt-BR"
	CurrencySymbol string // defaults to "R$"
}

func (o Options) ptBR() bool {
	return strings.EqualFold(o.Locale, "pt-BR")
}

func (o Options) symbol() string {
	if o.CurrencySymbol == "" {
		return "R$"
	}
	return o.CurrencySymbol
}

// Names lists the renderer names Lookup accepts. "coalesce" takes a
// comma-separated field list after a colon.
func Names() []string {
	return []string{"text", "code", "badge", "date", "datetime", "currency", "coalesce:<fields>", "action"}
}

// Lookup returns the renderer for name. The empty name and "text" return nil,
// which makes the table print raw values.
func Lookup(name string, opts Options) (datatable.CellRenderer, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(name), ":")
	switch strings.ToLower(kind) {
	case "", "text":
		return nil, nil
	case "code":
		return styled(styles.Code), nil
	case "badge":
		return styled(styles.Badge), nil
	case "date":
		return dateRenderer(opts, false), nil
	case "datetime":
		return dateRenderer(opts, true), nil
	case "currency", "money":
		return currencyRenderer(opts), nil
	case "coalesce":
		fields := splitFields(arg)
		if len(fields) == 0 {
			return nil, fmt.Errorf("coalesce needs at least one field: %w", util.ErrUnknownRenderer)
		}
		return coalesceRenderer(fields), nil
	case "action":
		return func(any, datatable.Record) string {
			return styles.Action(styles.SymbolSearch)
		}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, util.ErrUnknownRenderer)
}

func styled(style func(string) string) datatable.CellRenderer {
	return func(value any, _ datatable.Record) string {
		s, ok := datatable.FormatValue(value)
		if !ok || s == "" {
			return ""
		}
		return style(s)
	}
}

func splitFields(arg string) []string {
	var fields []string
	for _, f := range strings.Split(arg, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// coalesceRenderer shows the first non-empty field among fields, or "0".
// ERP endpoints disagree on the name of the item count column, so views list
// every known alias.
func coalesceRenderer(fields []string) datatable.CellRenderer {
	fields = slices.Clone(fields)
	return func(_ any, row datatable.Record) string {
		for _, f := range fields {
			if s, ok := datatable.FormatValue(row[f]); ok && s != "" {
				return styles.Badge(s)
			}
		}
		return styles.Badge("0")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Dates
// ═══════════════════════════════════════════════════════════════════════════

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTime accepts a time.Time or one of the date formats ERP endpoints emit.
func ParseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func dateRenderer(opts Options, withTime bool) datatable.CellRenderer {
	layout := "2006-01-02"
	switch {
	case opts.ptBR() && withTime:
		layout = "02/01/2006 às 15:04"
	case opts.ptBR():
		layout = "02/01/2006"
	case withTime:
		layout = "2006-01-02 15:04"
	}
	return func(value any, _ datatable.Record) string {
		t, ok := ParseTime(value)
		if !ok {
			s, _ := datatable.FormatValue(value)
			return s
		}
		return styles.Date(t.Format(layout))
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Currency
// ═══════════════════════════════════════════════════════════════════════════

func currencyRenderer(opts Options) datatable.CellRenderer {
	return func(value any, _ datatable.Record) string {
		d, ok := datatable.AsDecimal(value)
		if !ok {
			s, _ := datatable.FormatValue(value)
			return s
		}
		return styles.Money(opts.symbol() + " " + FormatAmount(d, opts.ptBR()))
	}
}

// FormatAmount renders d with two decimals and thousands grouping:
// "1.234,56" with Brazilian separators, "1,234.56" otherwise.
func FormatAmount(d decimal.Decimal, brazilian bool) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")

	group, point := ",", "."
	if brazilian {
		group, point = ".", ","
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteString(group)
		}
		sb.WriteRune(r)
	}
	sb.WriteString(point)
	sb.WriteString(frac)
	return sb.String()
}
