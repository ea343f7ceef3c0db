package source

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

func load(t *testing.T, format Format, doc string) *Dataset {
	t.Helper()
	ds, err := Load(strings.NewReader(doc), format)
	if err != nil {
		t.Fatalf("Load(%s): %v", format, err)
	}
	return ds
}

func TestLoadJSON_KeepsKeyOrder(t *testing.T) {
	doc := `[
		// first request
		{"CODATENDIMENTO": 1042, "SOLICITANTE": "Ana", "CODCOLIGADA": 1},
		{"SOLICITANTE": "Bruno", "EXTRA": true, "CODATENDIMENTO": 1043,},
	]`
	ds := load(t, FormatJSON, doc)

	wantKeys := []string{"CODATENDIMENTO", "SOLICITANTE", "CODCOLIGADA", "EXTRA"}
	if !slices.Equal(ds.Keys, wantKeys) {
		t.Fatalf("keys = %v, want %v", ds.Keys, wantKeys)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("got %d records", len(ds.Records))
	}
	if n, ok := ds.Records[0]["CODATENDIMENTO"].(json.Number); !ok || n.String() != "1042" {
		t.Fatalf("number = %#v", ds.Records[0]["CODATENDIMENTO"])
	}
}

func TestLoadJSON_Envelope(t *testing.T) {
	doc := `{"total": 2, "data": [{"A": 1}, {"A": 2}]}`
	ds := load(t, FormatJSON, doc)
	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(ds.Records))
	}

	single := load(t, FormatJSON, `{"A": 1, "B": "x"}`)
	if len(single.Records) != 1 || single.Records[0]["B"] != "x" {
		t.Fatalf("single object = %+v", single.Records)
	}
}

func TestLoadJSON_NotRecords(t *testing.T) {
	for _, doc := range []string{`[1, 2]`, `"text"`} {
		_, err := Load(strings.NewReader(doc), FormatJSON)
		if !errors.Is(err, util.ErrNotRecordList) {
			t.Errorf("Load(%s) err = %v, want ErrNotRecordList", doc, err)
		}
	}
	ds := load(t, FormatJSON, "  ")
	if len(ds.Records) != 0 {
		t.Fatal("empty document should give no records")
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
items:
  - CODIGOPRD: "01.001"
    DESCRICAO: Parafuso sextavado
  - CODIGOPRD: "01.002"
    DESCRICAO: Porca
    UNIDADE: PC
`
	ds := load(t, FormatYAML, doc)
	if !slices.Equal(ds.Keys, []string{"CODIGOPRD", "DESCRICAO", "UNIDADE"}) {
		t.Fatalf("keys = %v", ds.Keys)
	}
	if ds.Records[1]["DESCRICAO"] != "Porca" {
		t.Fatalf("record = %v", ds.Records[1])
	}

	_, err := Load(strings.NewReader("- 1\n- 2\n"), FormatYAML)
	if !errors.Is(err, util.ErrNotRecordList) {
		t.Fatalf("err = %v, want ErrNotRecordList", err)
	}
}

func TestLoadCSV_SemicolonAndLatin1(t *testing.T) {
	// "Descrição" encoded as Windows-1252
	doc := "\xef\xbb\xbfCODIGO;Descri\xe7\xe3o;VALOR\n1;Caf\xe9;1.234,50\n\n2;A\xe7\xfacar;10,00\n"
	ds := load(t, FormatCSV, doc)

	if !slices.Equal(ds.Keys, []string{"CODIGO", "Descrição", "VALOR"}) {
		t.Fatalf("keys = %v", ds.Keys)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("got %d records", len(ds.Records))
	}
	if ds.Records[0]["Descrição"] != "Café" {
		t.Fatalf("latin-1 cell = %q", ds.Records[0]["Descrição"])
	}
}

func TestLoadTSV_ShortRows(t *testing.T) {
	ds := load(t, FormatTSV, "A\tB\tC\n1\t2\n")
	rec := ds.Records[0]
	if rec["A"] != "1" || rec["B"] != "2" {
		t.Fatalf("record = %v", rec)
	}
	if _, ok := rec["C"]; ok {
		t.Fatal("missing trailing cell should be absent")
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]Format{
		"a.json": FormatJSON, "a.JSONC": FormatJSON, "b.yml": FormatYAML,
		"c.csv": FormatCSV, "d.tsv": FormatTSV,
	}
	for path, want := range cases {
		got, err := FormatOf(path)
		if err != nil || got != want {
			t.Errorf("FormatOf(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatOf("x.xlsx"); !errors.Is(err, util.ErrUnsupportedFormat) {
		t.Fatalf("xlsx err = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movs.json")
	os.WriteFile(path, []byte(`[{"NUMEROMOV": "000123"}]`), 0644)
	ds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ds.Records[0]["NUMEROMOV"] != "000123" {
		t.Fatalf("record = %v", ds.Records[0])
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "gone.json"))
	var te *util.TableError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TableError", err)
	}
}

func TestCoerce(t *testing.T) {
	in := []datatable.Record{
		{"N": "42", "D": "1.234,56", "T": "2025-03-14", "S": 7, "X": "keep"},
		{"N": "3.5", "D": "oops", "T": "", "S": nil},
	}
	types := map[string]string{"N": TypeNumber, "D": TypeDecimal, "T": TypeDate, "S": TypeString}
	out := Coerce(in, types, "en")

	if out[0]["N"] != int64(42) {
		t.Fatalf("N = %#v", out[0]["N"])
	}
	if d, ok := out[0]["D"].(decimal.Decimal); !ok || !d.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("D = %#v", out[0]["D"])
	}
	if tm, ok := out[0]["T"].(time.Time); !ok || tm.Day() != 14 {
		t.Fatalf("T = %#v", out[0]["T"])
	}
	if out[0]["S"] != "7" || out[0]["X"] != "keep" {
		t.Fatalf("row 0 = %v", out[0])
	}

	if d, ok := out[1]["N"].(decimal.Decimal); !ok || d.String() != "3.5" {
		t.Fatalf("fractional number = %#v", out[1]["N"])
	}
	if out[1]["D"] != "oops" {
		t.Fatal("unparseable value should be kept")
	}
	if out[1]["T"] != nil || out[1]["S"] != nil {
		t.Fatalf("empty values = %v", out[1])
	}

	if in[0]["N"] != "42" {
		t.Fatal("Coerce modified its input")
	}
}

func TestCoerce_SortsNumerically(t *testing.T) {
	recs := Coerce([]datatable.Record{{"V": "10"}, {"V": "9"}, {"V": "100"}}, map[string]string{"V": TypeNumber}, "")
	sorted := datatable.Sort(recs, &datatable.SortState{Key: "V"})
	var got []any
	for _, r := range sorted {
		got = append(got, r["V"])
	}
	want := []any{int64(9), int64(10), int64(100)}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		locale string
		want   string
	}{
		{"1234.56", "en", "1234.56"},
		{"1,234.56", "en", "1234.56"},
		{"1.234,56", "pt-BR", "1234.56"},
		{"1.234,56", "en", "1234.56"},
		{"R$ 10,5", "pt-BR", "10.5"},
		{"R$ 10,5", "en", "10.5"},
		{"1,234,567", "en", "1234567"},
		{"1.234.567", "pt-BR", "1234567"},
		{"1,234", "en", "1234"},
		{"1,234", "", "1234"},
		{"1,234", "pt-BR", "1.234"},
		{"1.234", "pt-BR", "1234"},
		{"1.234", "en", "1.234"},
		{"-2,500", "en", "-2500"},
	}
	for _, tt := range tests {
		d, ok := parseAmount(tt.in, tt.locale)
		if !ok || !d.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseAmount(%q, %q) = %v, %v; want %s", tt.in, tt.locale, d, ok, tt.want)
		}
	}
}

func TestCoerce_GroupedNumberByLocale(t *testing.T) {
	types := map[string]string{"V": TypeNumber}

	en := Coerce([]datatable.Record{{"V": "1,234"}, {"V": "12,345,678"}}, types, "en")
	if en[0]["V"] != int64(1234) || en[1]["V"] != int64(12345678) {
		t.Fatalf("en = %v, want 1234 and 12345678", en)
	}

	pt := Coerce([]datatable.Record{{"V": "1.234"}}, types, "pt-BR")
	if pt[0]["V"] != int64(1234) {
		t.Fatalf("pt-BR = %#v, want int64 1234", pt[0]["V"])
	}
}

func TestQuery_RefusesWrites(t *testing.T) {
	_, err := Query(context.Background(), "postgres://nowhere", "DELETE FROM TMOV", QueryOptions{})
	if !errors.Is(err, util.ErrWriteQuery) {
		t.Fatalf("err = %v, want ErrWriteQuery", err)
	}
}
