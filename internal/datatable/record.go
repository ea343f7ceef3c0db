package datatable

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one row of caller-shaped data. Keys are field names; values are
// scalars (strings, numbers, decimals, times, bools) or nil. A key that is
// absent reads as nil, which every stage of the table tolerates.
type Record map[string]any

// Get returns the value stored under key and whether it holds a non-nil value.
func (r Record) Get(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// FormatValue returns the textual form of a cell value as used for search and
// default display. ok is false for nil, which callers treat as "no text".
func FormatValue(v any) (s string, ok bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(val), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(val), 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case decimal.Decimal:
		return val.String(), true
	case *big.Int:
		if val == nil {
			return "", false
		}
		return val.String(), true
	case time.Time:
		if val.IsZero() {
			return "", false
		}
		return val.Format(time.RFC3339), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Ordering
// ═══════════════════════════════════════════════════════════════════════════

// CompareValues orders two cell values. Numbers compare numerically (exactly,
// through decimal), strings lexicographically, times chronologically and
// bools false before true. A nil operand compares equal to anything. Values of
// unrelated kinds fall back to comparing their textual forms.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		return 0
	}

	if da, ok := toDecimal(a); ok {
		if db, ok := toDecimal(b); ok {
			return da.Cmp(db)
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}

	// Mixed kinds: a numeric string against a number still orders numerically.
	if da, ok := numericOperand(a); ok {
		if db, ok := numericOperand(b); ok {
			return da.Cmp(db)
		}
	}

	as, _ := FormatValue(a)
	bs, _ := FormatValue(b)
	return strings.Compare(as, bs)
}

// toDecimal converts numeric Go kinds to a decimal. Strings are not numbers
// here; see numericOperand for the mixed-kind fallback.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int8, int16, int32, int64:
		return decimal.NewFromInt(toInt64(val)), true
	case uint, uint8, uint16, uint32, uint64:
		u := toUint64(val)
		if u > math.MaxInt64 {
			return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0), true
		}
		return decimal.NewFromInt(int64(u)), true
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(val), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case decimal.Decimal:
		return val, true
	case *big.Int:
		if val == nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromBigInt(val, 0), true
	}
	return decimal.Decimal{}, false
}

func numericOperand(v any) (decimal.Decimal, bool) {
	if s, ok := v.(string); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		return d, err == nil
	}
	return toDecimal(v)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}

// AsDecimal converts a numeric cell value, or a string holding a number, to a
// decimal.
func AsDecimal(v any) (decimal.Decimal, bool) {
	return numericOperand(v)
}
