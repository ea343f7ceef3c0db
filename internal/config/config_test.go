package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portal-erp/erptable/internal/cells"
	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Display.PageSize != 10 || !cfg.Display.Searchable || cfg.Display.Locale != "en" {
		t.Fatalf("unexpected defaults: %+v", cfg.Display)
	}
	if cfg.SQL.MaxRows != 10000 {
		t.Fatalf("sql.max_rows = %d, want 10000", cfg.SQL.MaxRows)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[display]
page_size = 25
searchable = false

[views.mine]
title = "Mine"
sort = "B:desc"

[[views.mine.columns]]
key = "A"
header = "Alpha"

[[views.mine.columns]]
key = "B"
sortable = true
type = "number"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Display.PageSize != 25 {
		t.Fatalf("page_size = %d, want 25", cfg.Display.PageSize)
	}
	if cfg.Display.Searchable {
		t.Fatal("searchable should be false")
	}
	if cfg.Display.Locale != "en" || cfg.SQL.Timeout != 60 {
		t.Fatalf("defaults lost: %+v %+v", cfg.Display, cfg.SQL)
	}

	v, err := cfg.ResolveView("mine")
	if err != nil {
		t.Fatalf("ResolveView: %v", err)
	}
	if len(v.Columns) != 2 || v.Columns[0].Header != "Alpha" || !v.Columns[1].Sortable {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Types()["B"] != "number" {
		t.Fatalf("types = %v", v.Types())
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultGlobalConfig()
	cfg.Display.Locale = "pt-BR"
	cfg.Views["x"] = ViewConfig{Columns: []ColumnConfig{{Key: "K", Sortable: true}}}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Display.Locale != "pt-BR" {
		t.Fatalf("locale = %q", got.Display.Locale)
	}
	if len(got.Views["x"].Columns) != 1 {
		t.Fatalf("views = %+v", got.Views)
	}
}

func TestSetValue(t *testing.T) {
	cfg := DefaultGlobalConfig()

	if err := cfg.SetValue("display.page_size", "50"); err != nil {
		t.Fatalf("set page_size: %v", err)
	}
	if err := cfg.SetValue("display.searchable", "false"); err != nil {
		t.Fatalf("set searchable: %v", err)
	}
	if err := cfg.SetValue("locale", "pt-BR"); err != nil {
		t.Fatalf("set locale alias: %v", err)
	}

	if v, _ := cfg.GetValue("display.page_size"); v != "50" {
		t.Fatalf("page_size = %q", v)
	}
	if v, _ := cfg.GetValue("display.searchable"); v != "false" {
		t.Fatalf("searchable = %q", v)
	}
	if cfg.Display.Locale != "pt-BR" {
		t.Fatalf("locale = %q", cfg.Display.Locale)
	}

	bad := []struct{ key, value string }{
		{"display.page_size", "0"},
		{"display.page_size", "abc"},
		{"display.searchable", "maybe"},
		{"display.locale", "fr"},
		{"nope.key", "1"},
	}
	for _, tc := range bad {
		if err := cfg.SetValue(tc.key, tc.value); err == nil {
			t.Errorf("SetValue(%q, %q) should fail", tc.key, tc.value)
		}
	}
}

func TestListKeysAndHelp(t *testing.T) {
	keys := ListKeys()
	want := []string{"display.page_size", "display.searchable", "sql.timeout"}
	for _, k := range want {
		found := false
		for _, got := range keys {
			if got == k {
				found = true
			}
		}
		if !found {
			t.Fatalf("ListKeys missing %q: %v", k, keys)
		}
	}
	help := GenerateHelpText()
	if !strings.Contains(help, "Display:") || !strings.Contains(help, "sql.max_rows") {
		t.Fatalf("help text:\n%s", help)
	}
}

func TestResolveView_BuiltinAndUnknown(t *testing.T) {
	cfg := DefaultGlobalConfig()
	v, err := cfg.ResolveView("movements")
	if err != nil {
		t.Fatalf("ResolveView: %v", err)
	}
	if v.Columns[0].Key != "CODCOLIGADA" {
		t.Fatalf("first column = %q", v.Columns[0].Key)
	}

	_, err = cfg.ResolveView("ghost")
	if !errors.Is(err, util.ErrViewNotFound) {
		t.Fatalf("err = %v, want ErrViewNotFound", err)
	}
}

func TestResolveView_ConfigShadowsBuiltin(t *testing.T) {
	cfg := DefaultGlobalConfig()
	cfg.Views["products"] = ViewConfig{Columns: []ColumnConfig{{Key: "ONLY"}}}
	v, err := cfg.ResolveView("products")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Columns) != 1 || v.Columns[0].Key != "ONLY" {
		t.Fatalf("view = %+v", v)
	}
}

func TestBuiltinViews_Build(t *testing.T) {
	for name, v := range BuiltinViews() {
		cols, err := v.Build(cells.Options{Locale: "pt-BR"})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(cols) != len(v.Columns) {
			t.Fatalf("%s: %d columns, want %d", name, len(cols), len(v.Columns))
		}
		if _, err := v.InitialSort(); err != nil {
			t.Fatalf("%s sort: %v", name, err)
		}
	}
}

func TestBuild_UnknownRenderer(t *testing.T) {
	v := ViewConfig{Columns: []ColumnConfig{{Key: "A", Render: "sparkline"}}}
	if _, err := v.Build(cells.Options{}); !errors.Is(err, util.ErrUnknownRenderer) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadViewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cols.toml")
	content := `
sort = "VALOR:desc"
page_size = 5

[[columns]]
key = "VALOR"
header = "Valor"
sortable = true
render = "currency"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	v, err := LoadViewFile(path)
	if err != nil {
		t.Fatalf("LoadViewFile: %v", err)
	}
	if v.PageSize != 5 || v.Columns[0].Render != "currency" {
		t.Fatalf("view = %+v", v)
	}

	empty := filepath.Join(dir, "empty.toml")
	os.WriteFile(empty, []byte(`title = "x"`), 0644)
	if _, err := LoadViewFile(empty); err == nil {
		t.Fatal("expected error for a view without columns")
	}
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		in      string
		want    *datatable.SortState
		wantErr bool
	}{
		{"", nil, false},
		{"A", &datatable.SortState{Key: "A", Direction: datatable.Ascending}, false},
		{"A:DESC", &datatable.SortState{Key: "A", Direction: datatable.Descending}, false},
		{" B : asc ", &datatable.SortState{Key: "B", Direction: datatable.Ascending}, false},
		{":desc", nil, true},
		{"A:sideways", nil, true},
	}
	for _, tc := range cases {
		got, err := ParseSort(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseSort(%q) err = %v", tc.in, err)
		}
		if tc.want == nil {
			if got != nil {
				t.Fatalf("ParseSort(%q) = %+v, want nil", tc.in, got)
			}
			continue
		}
		if got == nil || *got != *tc.want {
			t.Fatalf("ParseSort(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestAutoView(t *testing.T) {
	v := AutoView([]string{"B", "A"})
	if len(v.Columns) != 2 || v.Columns[0].Key != "B" || !v.Columns[1].Sortable {
		t.Fatalf("AutoView = %+v", v)
	}
}
