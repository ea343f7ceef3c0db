package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/portal-erp/erptable/internal/cells"
	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

// ViewConfig is a named table layout: which fields to show, how to render
// them and how the table starts out.
type ViewConfig struct {
	Title    string         `toml:"title,omitempty"`
	PageSize int            `toml:"page_size,omitempty"`
	Sort     string         `toml:"sort,omitempty"` // "key" or "key:desc"
	Columns  []ColumnConfig `toml:"columns"`
}

// ColumnConfig describes one column of a view
type ColumnConfig struct {
	Key      string `toml:"key"`
	Header   string `toml:"header,omitempty"`
	Sortable bool   `toml:"sortable,omitempty"`
	Width    int    `toml:"width,omitempty"`
	Render   string `toml:"render,omitempty"` // see cells.Names
	Type     string `toml:"type,omitempty"`   // number, decimal, date, string
}

// ActionsKey is the synthetic field behind the per-row detail column
const ActionsKey = "_actions"

// ═══════════════════════════════════════════════════════════════════════════
// Built-in views
// ═══════════════════════════════════════════════════════════════════════════

func actionsColumn() ColumnConfig {
	return ColumnConfig{Key: ActionsKey, Header: "", Render: "action", Width: 3}
}

// BuiltinViews returns the layouts of the portal's standard pages
func BuiltinViews() map[string]ViewConfig {
	return map[string]ViewConfig{
		"approvals": {
			Title: "Pending approvals",
			Sort:  "ABERTURA:desc",
			Columns: []ColumnConfig{
				{Key: "CODATENDIMENTO", Header: "Request", Sortable: true, Render: "code", Type: "number"},
				{Key: "CODCOLIGADA", Header: "Company", Sortable: true, Render: "badge", Type: "number"},
				{Key: "ABERTURA", Header: "Opened", Sortable: true, Render: "datetime", Type: "date"},
				{Key: "SOLICITANTE", Header: "Requester", Sortable: true},
				actionsColumn(),
			},
		},
		"movements": {
			Title: "Movements",
			Sort:  "DATAEMISSAO:desc",
			Columns: []ColumnConfig{
				{Key: "CODCOLIGADA", Header: "Company", Sortable: true, Render: "badge", Type: "number"},
				{Key: "CODFILIAL", Header: "Branch", Sortable: true, Type: "number"},
				{Key: "CODTMV", Header: "Type", Sortable: true},
				{Key: "DATAEMISSAO", Header: "Issued", Sortable: true, Render: "date", Type: "date"},
				{Key: "NUMEROMOV", Header: "Number", Sortable: true, Render: "code"},
				{Key: "QTD_ITENS", Header: "Items", Sortable: true, Render: "coalesce:QTD_ITENS,QTD,TOTALITENS", Type: "number"},
				{Key: "VALORBRUTO", Header: "Gross value", Sortable: true, Render: "currency", Type: "decimal"},
				actionsColumn(),
			},
		},
		"products": {
			Title: "Products",
			Sort:  "CODIGOPRD",
			Columns: []ColumnConfig{
				{Key: "CODIGOPRD", Header: "Code", Sortable: true, Render: "code"},
				{Key: "DESCRICAO", Header: "Description", Sortable: true},
			},
		},
	}
}

// ViewNames returns every built-in and configured view name, sorted
func (c *GlobalConfig) ViewNames() []string {
	seen := make(map[string]bool)
	var names []string
	for name := range BuiltinViews() {
		seen[name] = true
		names = append(names, name)
	}
	for name := range c.Views {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ResolveView returns the view called name. Views in the config file shadow
// built-in views of the same name.
func (c *GlobalConfig) ResolveView(name string) (ViewConfig, error) {
	if v, ok := c.Views[name]; ok {
		return v, nil
	}
	if v, ok := BuiltinViews()[name]; ok {
		return v, nil
	}
	return ViewConfig{}, util.ViewNotFoundError(name, c.ViewNames())
}

// LoadViewFile reads a standalone view definition (the --columns flag). The
// file has the same shape as a [views.<name>] table.
func LoadViewFile(path string) (ViewConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ViewConfig{}, err
	}
	var v ViewConfig
	if _, err := toml.Decode(string(data), &v); err != nil {
		return ViewConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(v.Columns) == 0 {
		return ViewConfig{}, fmt.Errorf("%s defines no columns", path)
	}
	return v, nil
}

// AutoView builds a view showing every key in order, all sortable
func AutoView(keys []string) ViewConfig {
	v := ViewConfig{Columns: make([]ColumnConfig, 0, len(keys))}
	for _, k := range keys {
		v.Columns = append(v.Columns, ColumnConfig{Key: k, Header: k, Sortable: true})
	}
	return v
}

// ═══════════════════════════════════════════════════════════════════════════
// Building table columns
// ═══════════════════════════════════════════════════════════════════════════

// Build turns the view into table columns, resolving renderer names
func (v ViewConfig) Build(opts cells.Options) ([]datatable.Column, error) {
	cols := make([]datatable.Column, 0, len(v.Columns))
	for _, cc := range v.Columns {
		if cc.Key == "" {
			return nil, fmt.Errorf("column without key in view %q", v.Title)
		}
		render, err := cells.Lookup(cc.Render, opts)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", cc.Key, err)
		}
		cols = append(cols, datatable.Column{
			Key:      cc.Key,
			Header:   cc.Header,
			Sortable: cc.Sortable,
			Width:    cc.Width,
			Render:   render,
		})
	}
	return cols, nil
}

// Types returns the declared type of every typed column
func (v ViewConfig) Types() map[string]string {
	types := make(map[string]string)
	for _, cc := range v.Columns {
		if cc.Type != "" {
			types[cc.Key] = strings.ToLower(cc.Type)
		}
	}
	return types
}

// InitialSort parses the view's Sort setting
func (v ViewConfig) InitialSort() (*datatable.SortState, error) {
	return ParseSort(v.Sort)
}

// ParseSort parses "key", "key:asc" or "key:desc". The empty string means
// no sort.
func ParseSort(s string) (*datatable.SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	key, dir, _ := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("invalid sort %q: missing column", s)
	}
	state := &datatable.SortState{Key: key, Direction: datatable.Ascending}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		state.Direction = datatable.Descending
	default:
		return nil, fmt.Errorf("invalid sort direction %q (use asc or desc)", dir)
	}
	return state, nil
}
