// Value coercion helpers shared by the filter and sort engines.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// stringify renders a cell value for display, global search, and tolerant
// equality. nil renders as the empty string so absent values never match a
// non-empty query.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// tolerantEqual compares two cell values by their stringified form. This
// deliberately matches a boolean against its string form ("true"/true) and a
// number against its decimal form, accommodating filter state that round-trips
// through query strings or config files.
func tolerantEqual(a, b any) bool {
	return stringify(a) == stringify(b)
}

// toFloat coerces a cell value to float64 for range filters and numeric
// sorting. Strings are parsed; anything else is not numeric.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
