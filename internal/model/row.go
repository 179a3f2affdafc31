package model

import (
	"sort"
	"strings"
)

// RawRow is one parsed record from a tabular export: lower-cased column name to raw cell value.
// Cell values are strings, numbers or nil. A RawRow is never mutated after construction.
type RawRow struct {
	cols    []string
	values  map[string]any
	compact map[string]string // "market_cap" -> "market cap", "market-cap" or "market_cap"
}

// NewRawRow builds a row from parallel header and value slices. Column names are trimmed and
// lower-cased; when a header repeats, the first occurrence is kept.
func NewRawRow(columns []string, values []any) RawRow {
	r := RawRow{
		cols:    make([]string, 0, len(columns)),
		values:  make(map[string]any, len(columns)),
		compact: make(map[string]string, len(columns)),
	}
	for i, c := range columns {
		key := ColumnKey(c)
		if key == "" {
			continue
		}
		if _, dup := r.values[key]; dup {
			continue
		}
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.cols = append(r.cols, key)
		r.values[key] = v
		if ck := compactKey(key); r.compact[ck] == "" {
			r.compact[ck] = key
		}
	}
	return r
}

// RowFromMap builds a row from a column map. Columns are ordered by name.
func RowFromMap(m map[string]any) RawRow {
	cols := make([]string, 0, len(m))
	for k := range m {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = m[c]
	}
	return NewRawRow(cols, vals)
}

// ColumnKey is the canonical form of a column header.
func ColumnKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func compactKey(key string) string {
	return strings.Join(strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// Columns returns the row's column names in header order.
func (r RawRow) Columns() []string { return r.cols }

// Len is the number of columns.
func (r RawRow) Len() int { return len(r.cols) }

// Has reports whether the column exists, matching "market cap", "market-cap" and "market_cap" alike.
func (r RawRow) Has(col string) bool {
	_, ok := r.resolve(col)
	return ok
}

// Value returns the raw cell for a column.
func (r RawRow) Value(col string) (any, bool) {
	key, ok := r.resolve(col)
	if !ok {
		return nil, false
	}
	return r.values[key], true
}

// Text returns the cell as trimmed text; numbers are not formatted and yield "".
func (r RawRow) Text(col string) string {
	v, ok := r.Value(col)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Lookup returns the first alias present in the row together with its cell value.
func (r RawRow) Lookup(aliases ...string) (string, any, bool) {
	for _, a := range aliases {
		if key, ok := r.resolve(a); ok {
			return key, r.values[key], true
		}
	}
	return "", nil, false
}

func (r RawRow) resolve(col string) (string, bool) {
	key := ColumnKey(col)
	if _, ok := r.values[key]; ok {
		return key, true
	}
	if orig, ok := r.compact[compactKey(key)]; ok {
		return orig, true
	}
	return "", false
}
