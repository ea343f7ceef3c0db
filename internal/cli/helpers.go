package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portal-erp/erptable/internal/cells"
	"github.com/portal-erp/erptable/internal/config"
	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/source"
	"github.com/portal-erp/erptable/internal/ui/table"
	"github.com/portal-erp/erptable/internal/util"
)

// displayFlags holds the flags shared by every command that shows records
type displayFlags struct {
	view     string
	columns  string
	pageSize int
	page     int
	search   string
	sort     string
	locale   string
	noSearch bool
	all      bool
	json     bool
	raw      bool
	noPager  bool
}

func addDisplayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("view", "", "Named view (built-in or from the config file)")
	f.String("columns", "", "TOML file with a view definition")
	f.Int("page-size", 0, "Rows per page (default from config)")
	f.Int("page", 1, "Page to open")
	f.String("search", "", "Initial search term")
	f.String("sort", "", "Initial sort, as column[:asc|desc]")
	f.String("locale", "", "Message language (en, pt-BR)")
	f.Bool("no-search", false, "Hide the search box and caption")
	f.Bool("all", false, "Show every matching record on one page")
	f.Bool("json", false, "Output records as a JSON array")
	f.Bool("raw", false, "Output tab-separated values (for piping)")
	f.Bool("no-pager", false, "Disable the interactive table view")

	_ = cmd.RegisterFlagCompletionFunc("view", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.LoadGlobal()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cfg.ViewNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("locale", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return datatable.Locales(), cobra.ShellCompDirectiveNoFileComp
	})
}

func readDisplayFlags(cmd *cobra.Command) displayFlags {
	var d displayFlags
	d.view, _ = cmd.Flags().GetString("view")
	d.columns, _ = cmd.Flags().GetString("columns")
	d.pageSize, _ = cmd.Flags().GetInt("page-size")
	d.page, _ = cmd.Flags().GetInt("page")
	d.search, _ = cmd.Flags().GetString("search")
	d.sort, _ = cmd.Flags().GetString("sort")
	d.locale, _ = cmd.Flags().GetString("locale")
	d.noSearch, _ = cmd.Flags().GetBool("no-search")
	d.all, _ = cmd.Flags().GetBool("all")
	d.json, _ = cmd.Flags().GetBool("json")
	d.raw, _ = cmd.Flags().GetBool("raw")
	d.noPager, _ = cmd.Flags().GetBool("no-pager")
	return d
}

// pickView chooses the view for a data set: --columns, then --view, then the
// built-in view named fallback, then one column per key.
func pickView(cfg *config.GlobalConfig, flags displayFlags, fallback string, keys []string) (config.ViewConfig, error) {
	switch {
	case flags.columns != "":
		v, err := config.LoadViewFile(flags.columns)
		if err != nil {
			return config.ViewConfig{}, util.NewError("Cannot load column definition").
				WithContext(flags.columns).
				Wrap(err)
		}
		return v, nil
	case flags.view != "":
		return cfg.ResolveView(flags.view)
	case fallback != "":
		if v, err := cfg.ResolveView(fallback); err == nil {
			return v, nil
		}
	}
	return config.AutoView(keys), nil
}

// hasExplicitView reports whether the columns are known before any data loads
func (d displayFlags) hasExplicitView() bool {
	return d.columns != "" || d.view != ""
}

// buildTable creates the table for view with the given records and applies
// every display flag that does not depend on the record count.
func buildTable(cfg *config.GlobalConfig, flags displayFlags, view config.ViewConfig, records []datatable.Record) (*datatable.Table, error) {
	locale := localeFor(cfg, flags)

	columns, err := view.Build(cells.Options{Locale: locale, CurrencySymbol: cfg.Display.CurrencySymbol})
	if err != nil {
		return nil, err
	}

	pageSize := cfg.Display.PageSize
	if view.PageSize > 0 {
		pageSize = view.PageSize
	}
	if flags.pageSize > 0 {
		pageSize = flags.pageSize
	}

	t := datatable.New(columns, coerce(records, view, locale),
		datatable.WithPageSize(pageSize),
		datatable.WithSearchable(cfg.Display.Searchable && !flags.noSearch),
		datatable.WithMessages(datatable.MessagesFor(locale)),
	)

	initial, err := view.InitialSort()
	if err != nil {
		return nil, err
	}
	if flags.sort != "" {
		if initial, err = config.ParseSort(flags.sort); err != nil {
			return nil, err
		}
	}
	if initial != nil && !t.SetSort(initial) {
		return nil, util.SortColumnError(initial.Key, sortFailure(columns, initial.Key))
	}

	t.Search(flags.search)
	return t, nil
}

func sortFailure(columns []datatable.Column, key string) error {
	for _, col := range columns {
		if col.Key == key {
			return util.ErrColumnNotSortable
		}
	}
	return util.ErrColumnNotFound
}

// localeFor picks --locale over the configured display locale
func localeFor(cfg *config.GlobalConfig, flags displayFlags) string {
	if flags.locale != "" {
		return flags.locale
	}
	return cfg.Display.Locale
}

func coerce(records []datatable.Record, view config.ViewConfig, locale string) []datatable.Record {
	types := view.Types()
	if len(types) == 0 || len(records) == 0 {
		return records
	}
	return source.Coerce(records, types, locale)
}

// displayOptions translates the flags for table.DisplayResults
func displayOptions(cfg *config.GlobalConfig, flags displayFlags, title string, fields []string) table.DisplayOptions {
	return table.DisplayOptions{
		Title:       title,
		Fields:      fields,
		Page:        flags.page,
		All:         flags.all,
		MaxColWidth: cfg.Display.MaxColWidth,
		JSON:        flags.json,
		Raw:         flags.raw,
		NoPager:     flags.noPager,
	}
}

// titleFor names the table after the view, or the source when the view has
// no title
func titleFor(view config.ViewConfig, src string) string {
	if view.Title != "" {
		return view.Title
	}
	if src == "" || src == "-" {
		return "stdin"
	}
	return filepath.Base(src)
}

func loadConfig() (*config.GlobalConfig, error) {
	cfg, err := config.LoadGlobal()
	if err != nil {
		return nil, util.NewError("Cannot load configuration").
			WithContext(config.GlobalConfigPath()).
			WithSuggestions("erptable config --list").
			Wrap(err)
	}
	return cfg, nil
}

// viewNameFromPath guesses a built-in view from a file name such as
// "movements-2025.csv"
func viewNameFromPath(path string) string {
	base := strings.ToLower(filepath.Base(path))
	for name := range config.BuiltinViews() {
		if strings.HasPrefix(base, name) {
			return name
		}
	}
	return ""
}
