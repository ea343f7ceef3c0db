// Package table draws a datatable.Table on the terminal. It supports an
// interactive TUI (search box, sortable headers, page navigation, row
// detail), a plain aligned page for pipes, JSON output, and raw
// tab-separated output.
//
// All erptable commands (view, sql, demo) display records through
// DisplayResults.
package table

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/ui"
)

// Loader fetches records. The TUI runs it in the background while the table
// shows its loading state; the other modes run it before printing.
type Loader func(ctx context.Context) ([]datatable.Record, error)

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// Title is shown in the interactive TUI header.
	Title string
	// Fields orders the keys of JSON output; defaults to the column keys.
	Fields []string
	// Page is applied once records are loaded (0 keeps page 1).
	Page int
	// All shows every matching record on a single page.
	All bool
	// MaxColWidth caps automatic column widths in the TUI.
	MaxColWidth int

	// JSON outputs results as a JSON array of objects.
	JSON bool
	// Raw outputs results as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool

	// Out receives non-interactive output; defaults to stdout.
	Out io.Writer
}

func (o DisplayOptions) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

// DisplayResults picks the right output mode based on options and environment,
// loads records through load when it is not nil, then renders t.
func DisplayResults(ctx context.Context, t *datatable.Table, load Loader, opts DisplayOptions) error {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	interactive := isTTY && opts.Out == nil && !opts.NoPager && !opts.JSON && !opts.Raw

	if interactive {
		return RunTableTUI(ctx, t, load, opts)
	}

	if load != nil {
		spin := ui.NewSpinner(t.Messages().Loading)
		spin.Start()
		records, err := load(ctx)
		spin.Stop()
		if err != nil {
			return err
		}
		t.SetRecords(records)
		t.SetLoading(false)
	}
	applyLoaded(t, opts)

	switch {
	case opts.Raw:
		return WriteRaw(opts.out(), t)
	case opts.JSON:
		return WriteJSON(opts.out(), t, opts.Fields)
	default:
		return WritePage(opts.out(), t)
	}
}

// applyLoaded applies the options that depend on the record count
func applyLoaded(t *datatable.Table, opts DisplayOptions) {
	if opts.All {
		t.SetPageSize(max(len(t.Records()), datatable.DefaultPageSize))
	}
	if opts.Page > 0 {
		t.GoToPage(opts.Page)
	}
}
