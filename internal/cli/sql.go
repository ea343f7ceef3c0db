package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/db"
	"github.com/portal-erp/erptable/internal/source"
	"github.com/portal-erp/erptable/internal/ui"
	"github.com/portal-erp/erptable/internal/ui/table"
	"github.com/portal-erp/erptable/internal/util"
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <postgres-url> <query>",
		Short: "Show the result of a read-only PostgreSQL query",
		Long: `Run a query against a PostgreSQL database and show the rows in the
table viewer.

Only read-only statements are accepted. The session is also opened with
default_transaction_read_only, so a write hidden in a function call fails
on the server.

Columns follow the select list unless --view or --columns is given. With a
view, the table opens immediately and shows the loading state until the
rows arrive.

Examples:
  erptable sql postgres://erp@db/portal "SELECT * FROM TMOV WHERE CODCOLIGADA = 1"
  erptable sql $DATABASE_URL "SELECT * FROM approvals" --view approvals
  erptable sql $DATABASE_URL "SELECT CODIGOPRD, DESCRICAO FROM TPRD" --json`,
		Args: cobra.ExactArgs(2),
		RunE: runSQL,
	}

	addDisplayFlags(cmd)
	cmd.Flags().Int("timeout", 0, "Query timeout in seconds (default from config)")
	cmd.Flags().Int("max-rows", 0, "Rows fetched before the result is cut off (default from config)")

	return cmd
}

func runSQL(cmd *cobra.Command, args []string) error {
	url, query := args[0], args[1]
	flags := readDisplayFlags(cmd)
	timeout, _ := cmd.Flags().GetInt("timeout")
	maxRows, _ := cmd.Flags().GetInt("max-rows")

	// Refuse writes before anything touches the network
	if db.IsWriteQuery(query) {
		return util.WriteQueryError(query)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = cfg.SQL.Timeout
	}
	if maxRows <= 0 {
		maxRows = cfg.SQL.MaxRows
	}
	qopts := source.QueryOptions{
		Timeout: time.Duration(timeout) * time.Second,
		MaxRows: maxRows,
	}

	ctx := cmd.Context()

	// With a view the columns are known up front, so rows load behind the
	// table's loading state
	if flags.hasExplicitView() {
		view, err := pickView(cfg, flags, "", nil)
		if err != nil {
			return err
		}
		t, err := buildTable(cfg, flags, view, nil)
		if err != nil {
			return err
		}
		load := func(ctx context.Context) ([]datatable.Record, error) {
			ds, err := source.Query(ctx, url, query, qopts)
			if err != nil {
				return nil, err
			}
			return coerce(ds.Records, view, localeFor(cfg, flags)), nil
		}
		return table.DisplayResults(ctx, t, load, displayOptions(cfg, flags, titleFor(view, "query"), nil))
	}

	spin := ui.NewSpinner("Running query...")
	spin.Start()
	ds, err := source.Query(ctx, url, query, qopts)
	if err != nil {
		spin.Error("Query failed")
		return err
	}
	spin.Stop()

	view, err := pickView(cfg, flags, "", ds.Keys)
	if err != nil {
		return err
	}
	t, err := buildTable(cfg, flags, view, ds.Records)
	if err != nil {
		return err
	}
	return table.DisplayResults(ctx, t, nil, displayOptions(cfg, flags, titleFor(view, "query"), ds.Keys))
}
