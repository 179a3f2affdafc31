// Package aggregate folds raw export rows into per-(ticker, day) cells of canonical fields.
package aggregate

import (
	"strings"

	"TreasuryWatch/internal/classify"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/normalize"
)

// Result holds the cells built from one table plus row diagnostics.
type Result struct {
	Layout model.Layout
	Matrix bool // wide table with one column per ticker
	Cells  map[model.CellKey]*model.DailyCell
	Stats  model.RowStats
}

// Aggregate detects the layout once from the first row, then merges every row into its cell.
// Within a cell the first finite value of each field wins; later duplicates are ignored.
func Aggregate(rows []model.RawRow) *Result {
	res := &Result{Cells: make(map[model.CellKey]*model.DailyCell)}
	if len(rows) == 0 {
		return res
	}
	res.Layout = classify.Detect(rows[0].Columns())
	if res.Layout == model.LayoutWide {
		_, _, hasTicker := rows[0].Lookup(classify.TickerColumns...)
		res.Matrix = !hasTicker
	}

	for _, row := range rows {
		res.Stats.Total++
		date, ok := RowDate(row)
		if !ok {
			res.Stats.NoDate++
			continue
		}
		switch {
		case res.Layout == model.LayoutLong:
			res.addLong(row, date)
		case res.Matrix:
			res.addMatrix(row, date)
		default:
			res.addWide(row, date)
		}
	}
	res.Stats.Cells = len(res.Cells)
	return res
}

// RowDate resolves the first date-like column that parses to a calendar day.
func RowDate(row model.RawRow) (string, bool) {
	for _, col := range classify.DateColumns {
		v, ok := row.Value(col)
		if !ok {
			continue
		}
		if d, ok := normalize.Date(v); ok {
			return d, true
		}
	}
	return "", false
}

func rowTicker(row model.RawRow) (model.Ticker, bool) {
	_, v, ok := row.Lookup(classify.TickerColumns...)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return normalize.Ticker(s)
}

func (r *Result) addLong(row model.RawRow, date string) {
	t, ok := rowTicker(row)
	if !ok {
		r.Stats.NoTicker++
		return
	}
	field, ok := classify.Metric(row.Text(classify.MetricColumn))
	if !ok {
		r.Stats.Unclassified++
		return
	}
	_, v, _ := row.Lookup(classify.ValueColumns...)
	if !present(v) {
		return
	}
	r.cell(t, date).Merge(field, normalize.ParseNumber(v))
}

func (r *Result) addWide(row model.RawRow, date string) {
	t, ok := rowTicker(row)
	if !ok {
		r.Stats.NoTicker++
		return
	}
	var cell *model.DailyCell
	for _, field := range model.Fields {
		for _, alias := range classify.WideAliases[field] {
			v, ok := row.Value(alias)
			if !ok || !present(v) {
				continue
			}
			if cell == nil {
				cell = r.cell(t, date)
			}
			if f := normalize.ParseNumber(v); normalize.IsNumber(f) {
				cell.Merge(field, f)
				break
			}
		}
	}
	if cell == nil {
		r.Stats.Unclassified++
	}
}

func (r *Result) addMatrix(row model.RawRow, date string) {
	field, ok := classify.Metric(row.Text(classify.MetricColumn))
	if !ok {
		r.Stats.Unclassified++
		return
	}
	var tickers int
	for _, col := range row.Columns() {
		if col == classify.MetricColumn || isDateColumn(col) {
			continue
		}
		t, ok := normalize.Ticker(col)
		if !ok {
			continue
		}
		tickers++
		v, _ := row.Value(col)
		if !present(v) {
			continue
		}
		r.cell(t, date).Merge(field, normalize.ParseNumber(v))
	}
	if tickers == 0 {
		r.Stats.NoTicker++
	}
}

func (r *Result) cell(t model.Ticker, date string) *model.DailyCell {
	key := model.CellKey{Ticker: t, Date: date}
	c, ok := r.Cells[key]
	if !ok {
		c = &model.DailyCell{}
		r.Cells[key] = c
	}
	return c
}

func isDateColumn(col string) bool {
	for _, d := range classify.DateColumns {
		if col == d {
			return true
		}
	}
	return false
}

// present reports whether a raw cell carries anything at all; blank cells are not observations.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	default:
		return true
	}
}
