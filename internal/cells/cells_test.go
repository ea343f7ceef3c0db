package cells

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/ui/styles"
	"github.com/portal-erp/erptable/internal/util"
)

func init() {
	styles.SetNoColor(true)
}

func render(t *testing.T, name string, opts Options, value any, row datatable.Record) string {
	t.Helper()
	r, err := Lookup(name, opts)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	if r == nil {
		s, _ := datatable.FormatValue(value)
		return s
	}
	return r(value, row)
}

func TestLookup_TextIsDefault(t *testing.T) {
	for _, name := range []string{"", "text", " TEXT "} {
		r, err := Lookup(name, Options{})
		if err != nil || r != nil {
			t.Fatalf("Lookup(%q) = %v, %v; want nil renderer", name, r, err)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("sparkline", Options{})
	if !errors.Is(err, util.ErrUnknownRenderer) {
		t.Fatalf("err = %v, want ErrUnknownRenderer", err)
	}
	_, err = Lookup("coalesce:", Options{})
	if !errors.Is(err, util.ErrUnknownRenderer) {
		t.Fatalf("empty coalesce: err = %v", err)
	}
}

func TestCurrency(t *testing.T) {
	cases := []struct {
		value any
		opts  Options
		want  string
	}{
		{1234.5, Options{Locale: "pt-BR"}, "R$ 1.234,50"},
		{"987654321.129", Options{Locale: "pt-BR"}, "R$ 987.654.321,13"},
		{decimal.RequireFromString("-45"), Options{}, "R$ -45.00"},
		{1000000, Options{CurrencySymbol: "US$"}, "US$ 1,000,000.00"},
		{0.5, Options{Locale: "pt-BR"}, "R$ 0,50"},
		{"n/a", Options{}, "n/a"},
	}
	for _, tc := range cases {
		if got := render(t, "currency", tc.opts, tc.value, nil); got != tc.want {
			t.Errorf("currency(%v, %+v) = %q, want %q", tc.value, tc.opts, got, tc.want)
		}
	}
}

func TestFormatAmount_Grouping(t *testing.T) {
	cases := map[string]string{
		"0":       "0.00",
		"12":      "12.00",
		"123":     "123.00",
		"1234":    "1,234.00",
		"123456":  "123,456.00",
		"-1234.5": "-1,234.50",

		"12345678901234567.89": "12,345,678,901,234,567.89",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in), false); got != want {
			t.Errorf("FormatAmount(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAmount_Brazilian(t *testing.T) {
	got := FormatAmount(decimal.RequireFromString("98765432109876.54"), true)
	if want := "98.765.432.109.876,54"; got != want {
		t.Errorf("FormatAmount = %q, want %q", got, want)
	}
}

func TestDate(t *testing.T) {
	when := time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)
	cases := []struct {
		name  string
		value any
		opts  Options
		want  string
	}{
		{"date", when, Options{Locale: "pt-BR"}, "14/03/2025"},
		{"date", "2025-03-14T09:05:00", Options{}, "2025-03-14"},
		{"datetime", "2025-03-14 09:05:00", Options{Locale: "pt-BR"}, "14/03/2025 às 09:05"},
		{"datetime", "2025-03-14T09:05:00Z", Options{}, "2025-03-14 09:05"},
		{"date", "not a date", Options{}, "not a date"},
		{"date", nil, Options{}, ""},
	}
	for _, tc := range cases {
		if got := render(t, tc.name, tc.opts, tc.value, nil); got != tc.want {
			t.Errorf("%s(%v) = %q, want %q", tc.name, tc.value, got, tc.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	name := "coalesce:QTD_ITENS, QTD ,TOTALITENS"
	cases := []struct {
		row  datatable.Record
		want string
	}{
		{datatable.Record{"QTD_ITENS": 3, "QTD": 9}, "3"},
		{datatable.Record{"QTD": 9}, "9"},
		{datatable.Record{"QTD_ITENS": "", "TOTALITENS": "4"}, "4"},
		{datatable.Record{}, "0"},
	}
	for _, tc := range cases {
		if got := render(t, name, Options{}, nil, tc.row); got != tc.want {
			t.Errorf("coalesce(%v) = %q, want %q", tc.row, got, tc.want)
		}
	}
}

func TestCodeAndBadge(t *testing.T) {
	if got := render(t, "code", Options{}, 1234, nil); got != "1234" {
		t.Fatalf("code = %q", got)
	}
	if got := render(t, "badge", Options{}, nil, nil); got != "" {
		t.Fatalf("badge of nil = %q", got)
	}
	if got := render(t, "action", Options{}, nil, nil); got != styles.SymbolSearch {
		t.Fatalf("action = %q", got)
	}
}
