package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/portal-erp/erptable/internal/source"
	"github.com/portal-erp/erptable/internal/ui/table"
	"github.com/portal-erp/erptable/internal/util"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file|->",
		Short: "Show records from a JSON, YAML, CSV or TSV file",
		Long: `Show records from a file in a searchable, sortable, paginated table.

The format follows the file extension (.json, .yaml, .yml, .csv, .tsv).
Use "-" to read standard input together with --format.

JSON may contain comments and trailing commas. A top-level object is
unwrapped when it holds the records under data, items, records, rows,
approvals, products or details. CSV files exported by Windows tools
(Latin-1, semicolon separated) are read as-is.

Files whose name starts with a built-in view (approvals, movements,
products) use that view unless --view or --columns is given.

Examples:
  erptable view approvals.json
  erptable view movimentos.csv --view movements --sort DATAEMISSAO:desc
  erptable view produtos.yaml --search parafuso --page-size 25
  curl -s $API/products | erptable view - --format json --json`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}

	addDisplayFlags(cmd)
	cmd.Flags().String("format", "", "Input format for stdin (json, yaml, csv, tsv)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "csv", "tsv"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]
	flags := readDisplayFlags(cmd)
	formatName, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ds, err := readDataset(path, formatName)
	if err != nil {
		return err
	}
	slog.Debug("records loaded", "source", path, "records", len(ds.Records), "fields", len(ds.Keys))

	view, err := pickView(cfg, flags, viewNameFromPath(path), ds.Keys)
	if err != nil {
		return err
	}

	t, err := buildTable(cfg, flags, view, ds.Records)
	if err != nil {
		return err
	}

	return table.DisplayResults(cmd.Context(), t, nil, displayOptions(cfg, flags, titleFor(view, path), ds.Keys))
}

// readDataset loads path, or stdin when path is "-"
func readDataset(path, formatName string) (*source.Dataset, error) {
	if path != "-" {
		if formatName != "" {
			format, ok := source.ParseFormat(formatName)
			if !ok {
				return nil, util.UnsupportedFormatError(formatName)
			}
			f, err := os.Open(path)
			if err != nil {
				return nil, util.SourceReadError(path, err)
			}
			defer f.Close()
			ds, err := source.Load(f, format)
			if err != nil {
				return nil, util.SourceReadError(path, err)
			}
			return ds, nil
		}
		return source.LoadFile(path)
	}

	if formatName == "" {
		return nil, util.NewError("Missing input format").
			WithMessage("Reading from stdin needs --format").
			WithSuggestions("erptable view - --format json")
	}
	format, ok := source.ParseFormat(formatName)
	if !ok {
		return nil, util.UnsupportedFormatError(formatName)
	}
	ds, err := source.Load(os.Stdin, format)
	if err != nil {
		return nil, util.SourceReadError("stdin", fmt.Errorf("%s: %w", format, err))
	}
	return ds, nil
}
