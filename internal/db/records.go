package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/portal-erp/erptable/internal/datatable"
)

// Result is the outcome of a query: column names in select order, one record
// per row, and whether rows were cut off at the limit.
type Result struct {
	Columns   []string
	Records   []datatable.Record
	Truncated bool
}

// writePrefixes are statement keywords that modify data or schema
var writePrefixes = []string{
	"INSERT", "UPDATE", "DELETE", "MERGE", "UPSERT",
	"DROP", "CREATE", "ALTER", "TRUNCATE",
	"GRANT", "REVOKE", "COPY", "VACUUM", "REINDEX", "CLUSTER",
	"COMMENT", "CALL", "DO",
}

// cteWriteRe finds a data-modifying statement anywhere in a WITH query.
// Identifiers such as last_update do not match.
var cteWriteRe = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|MERGE)\b`)

// IsWriteQuery reports whether query starts with a data-modifying keyword.
// Leading comments and a WITH clause are looked through, so
// "WITH x AS (...) DELETE ..." is caught too.
func IsWriteQuery(query string) bool {
	q := strings.ToUpper(stripLeadingComments(query))
	if strings.HasPrefix(q, "WITH") {
		return cteWriteRe.MatchString(q)
	}
	for _, kw := range writePrefixes {
		if q == kw || strings.HasPrefix(q, kw+" ") || strings.HasPrefix(q, kw+"\n") || strings.HasPrefix(q, kw+"\t") || strings.HasPrefix(q, kw+";") {
			return true
		}
	}
	return false
}

func stripLeadingComments(q string) string {
	for {
		q = strings.TrimSpace(q)
		switch {
		case strings.HasPrefix(q, "--"):
			nl := strings.IndexByte(q, '\n')
			if nl < 0 {
				return ""
			}
			q = q[nl+1:]
		case strings.HasPrefix(q, "/*"):
			end := strings.Index(q, "*/")
			if end < 0 {
				return ""
			}
			q = q[end+2:]
		default:
			return q
		}
	}
}

// QueryRecords runs query and collects at most maxRows rows (0 = no limit)
func (db *DB) QueryRecords(ctx context.Context, query string, maxRows int) (*Result, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	res := &Result{Columns: make([]string, len(fieldDescs))}
	for i, fd := range fieldDescs {
		res.Columns[i] = fd.Name
	}

	for rows.Next() {
		if maxRows > 0 && len(res.Records) >= maxRows {
			res.Truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(res.Records)+1, err)
		}
		res.Records = append(res.Records, toRecord(res.Columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func toRecord(columns []string, values []any) datatable.Record {
	rec := make(datatable.Record, len(columns))
	for i, name := range columns {
		if i < len(values) {
			rec[name] = convertValue(values[i])
		}
	}
	return rec
}

// convertValue maps pgx's decoded values onto the scalar kinds the table
// orders and renders: numerics become decimals, uuids become strings.
func convertValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case pgtype.Numeric:
		return numericToDecimal(val)
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case []byte:
		return string(val)
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		return fmt.Sprintf("%d months %d days %dus", val.Months, val.Days, val.Microseconds)
	case pgtype.Time:
		if !val.Valid {
			return nil
		}
		return fmt.Sprintf("%02d:%02d:%02d", val.Microseconds/3_600_000_000, val.Microseconds/60_000_000%60, val.Microseconds/1_000_000%60)
	case map[string]any, []any:
		return fmt.Sprint(val)
	default:
		return v
	}
}

func numericToDecimal(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
