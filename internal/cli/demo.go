package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/demo"
	"github.com/portal-erp/erptable/internal/ui/table"
	"github.com/portal-erp/erptable/internal/util"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [" + strings.Join(demo.Names(), "|") + "]",
		Short: "Show a built-in ERP dataset",
		Long: `Show one of the generated ERP datasets: purchase approvals, stock
movements or the product catalogue. The data is deterministic for a given
--seed, so the same command always shows the same table.

--delay simulates a slow backend: the table opens in its loading state and
fills in once the delay has passed.

Examples:
  erptable demo
  erptable demo movements --sort VALORBRUTO:desc
  erptable demo products --rows 1000 --search parafuso
  erptable demo approvals --delay 2s --locale pt-BR`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: demo.Names(),
		RunE:      runDemo,
	}

	addDisplayFlags(cmd)
	cmd.Flags().Int("rows", 0, "Number of records (default depends on the dataset)")
	cmd.Flags().Int64("seed", 1, "Random seed")
	cmd.Flags().Duration("delay", 0, "Simulated loading time")

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	name := "approvals"
	if len(args) > 0 {
		name = strings.ToLower(args[0])
	}
	flags := readDisplayFlags(cmd)
	rows, _ := cmd.Flags().GetInt("rows")
	seed, _ := cmd.Flags().GetInt64("seed")
	delay, _ := cmd.Flags().GetDuration("delay")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ds, err := demo.Generate(name, rows, seed)
	if err != nil {
		return util.NewError("Unknown demo dataset '"+name+"'").
			WithMessage("Available: "+strings.Join(demo.Names(), ", ")).
			Wrap(err)
	}

	view, err := pickView(cfg, flags, name, ds.Keys)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := displayOptions(cfg, flags, titleFor(view, name), ds.Keys)

	if delay <= 0 {
		t, err := buildTable(cfg, flags, view, ds.Records)
		if err != nil {
			return err
		}
		return table.DisplayResults(ctx, t, nil, opts)
	}

	t, err := buildTable(cfg, flags, view, nil)
	if err != nil {
		return err
	}
	load := func(ctx context.Context) ([]datatable.Record, error) {
		select {
		case <-time.After(delay):
			return coerce(ds.Records, view, localeFor(cfg, flags)), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return table.DisplayResults(ctx, t, load, opts)
}
