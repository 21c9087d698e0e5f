package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

// IndexColumn is the name under which the synthetic row position can be
// referenced when the row has no real column of that name.
const IndexColumn = "_index"

// Row is an ordered mapping from column name to scalar value
// (string, number, bool or nil). Column order is the order columns were added.
//
// A Row also carries an optional zero-based position, set by WithIndex, that
// feeds the SEQ token. The position is kept apart from the columns so it can
// never shadow user data.
type Row struct {
	cols    []string
	vals    map[string]any
	index   int
	indexed bool
}

// NewRow builds a row from parallel column and value slices.
// Missing values are treated as nil.
func NewRow(cols []string, vals []any) Row {
	r := Row{}
	for i, c := range cols {
		var v any
		if i < len(vals) {
			v = vals[i]
		}
		r.Set(c, v)
	}
	return r
}

// RowFromMap builds a row from a map. Columns are ordered by name since map
// iteration order is not stable.
func RowFromMap(m map[string]any) Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := Row{}
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Set adds or replaces a column value. Replacing keeps the original position.
func (r *Row) Set(col string, v any) {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Columns returns the column names in order.
func (r Row) Columns() []string {
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

// Lookup returns the raw value stored under the exact column name.
func (r Row) Lookup(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// WithIndex returns a copy of the row annotated with its zero-based position.
func (r Row) WithIndex(i int) Row {
	r.index = i
	r.indexed = true
	return r
}

// Index returns the synthetic position and whether one was set.
func (r Row) Index() (int, bool) {
	return r.index, r.indexed
}

// Get resolves a column reference to a non-absent string value.
//
// The exact column name is tried first; failing that, the first column whose
// case-folded name matches decides the result. nil and "" count as absent;
// the number zero does not.
func (r Row) Get(col string) (string, bool) {
	if v, ok := r.vals[col]; ok && present(v) {
		return Stringify(v), true
	}

	fold := cases.Fold()
	want := fold.String(col)
	for _, c := range r.cols {
		if fold.String(c) != want {
			continue
		}
		if v := r.vals[c]; present(v) {
			return Stringify(v), true
		}
		return "", false
	}

	if col == IndexColumn && r.indexed {
		return cast.ToString(r.index), true
	}
	return "", false
}

// Stringify converts a scalar value to its string form. nil becomes "" and
// timestamps use RFC 3339.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return cast.ToString(v)
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// RowFromAny converts a decoded value into a Row. Anything that is not a
// key/value mapping of scalars is a contract violation.
func RowFromAny(v any) (Row, error) {
	switch m := v.(type) {
	case Row:
		return m, nil
	case *Row:
		if m == nil {
			return Row{}, InvalidInputf("row is nil")
		}
		return *m, nil
	case map[string]any:
		for k, val := range m {
			if !isScalar(val) {
				return Row{}, InvalidInputf("column %q holds a non-scalar %T", k, val)
			}
		}
		return RowFromMap(m), nil
	case map[string]string:
		conv := make(map[string]any, len(m))
		for k, val := range m {
			conv[k] = val
		}
		return RowFromMap(conv), nil
	case nil:
		return Row{}, InvalidInputf("row is nil")
	default:
		return Row{}, InvalidInputf("row must be a key/value mapping, got %T", v)
	}
}

// RowsFromAny converts a decoded list of records into rows.
func RowsFromAny(v any) ([]Row, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, InvalidInputf("rows must be a list, got %T", v)
	}
	rows := make([]Row, 0, len(list))
	for i, item := range list {
		r, err := RowFromAny(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
