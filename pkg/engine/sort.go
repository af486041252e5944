// Stable multi-key sorting.
package engine

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey orders rows by one column. Keys apply in declared priority order;
// every referenced column must be sortable.
type SortKey struct {
	Column string
	Desc   bool
}

// sortRows returns a stably sorted copy of rows. The input slice is never
// modified. String values compare via locale-aware case-folding collation,
// numeric values numerically, times by instant. Rows whose accessor fails
// sort after rows with a value, preserving their relative order.
func (e *Engine[T]) sortRows(rows []T, keys []SortKey) ([]T, error) {
	if len(keys) == 0 {
		return rows, nil
	}
	cols := make([]*ColumnDescriptor[T], len(keys))
	for i, key := range keys {
		col, err := e.reg.column(key.Column)
		if err != nil {
			return nil, err
		}
		if !col.Sortable {
			return nil, fmt.Errorf("%w: %s", ErrNotSortable, key.Column)
		}
		cols[i] = col
	}

	// A fresh collator per sort keeps sortRows reentrant; collators carry
	// internal buffers and must not be shared.
	coll := collate.New(language.Und, collate.Loose)

	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		for k, key := range keys {
			a, aok := e.cell(cols[k], out[i])
			b, bok := e.cell(cols[k], out[j])
			switch {
			case !aok && !bok:
				continue
			case !aok:
				return false // absent values sort last
			case !bok:
				return true
			}
			c := compareValues(a, b, coll)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out, nil
}

// compareValues orders two present cell values: numerically when both
// coerce to numbers, by instant when both are times, otherwise by collated
// string form.
func compareValues(a, b any, coll *collate.Collator) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	return coll.CompareString(stringify(a), stringify(b))
}
