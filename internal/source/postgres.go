package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/portal-erp/erptable/internal/db"
	"github.com/portal-erp/erptable/internal/util"
)

// QueryOptions limit a SQL source
type QueryOptions struct {
	Timeout time.Duration
	MaxRows int
}

// Query runs a read-only query against the PostgreSQL database at url and
// returns its rows in select-list column order. Write statements are
// refused before connecting.
func Query(ctx context.Context, url, query string, opts QueryOptions) (*Dataset, error) {
	if db.IsWriteQuery(query) {
		return nil, util.WriteQueryError(query)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	conn, err := db.Connect(ctx, url, db.Options{StatementTimeout: opts.Timeout})
	if err != nil {
		return nil, util.DatabaseConnectionError(url, err)
	}
	defer conn.Close()
	slog.Debug("connected", "url", util.RedactURL(conn.URL()))

	start := time.Now()
	res, err := conn.QueryRecords(ctx, query, opts.MaxRows)
	if err != nil {
		return nil, err
	}
	slog.Debug("query finished", "rows", len(res.Records), "elapsed", time.Since(start))
	if res.Truncated {
		slog.Warn("result truncated", "max_rows", opts.MaxRows)
	}

	return &Dataset{Keys: res.Columns, Records: res.Records}, nil
}
