package flow

import (
	"strings"

	"TreasuryWatch/internal/classify"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/normalize"
)

type kind int

const (
	kindUnknown kind = iota
	kindDelta
	kindCumulative
)

// metricKind classifies a metric label. Cumulative is checked first since "cumulative net flow"
// also mentions flow.
func metricKind(label string) kind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "cum"):
		return kindCumulative
	case strings.Contains(l, "flow"), strings.Contains(l, "net"):
		return kindDelta
	}
	return kindUnknown
}

// aggregate columns that are never summed as a fund.
var summaryColumns = map[string]bool{
	"total": true, "average": true, "maximum": true, "minimum": true,
	"avg": true, "max": true, "min": true, "sum": true, "cumulative": true,
}

// extract pulls the delta and cumulative values for one asset out of one row. Either may be NaN.
func extract(row model.RawRow, a Asset) (delta, cum float64) {
	delta, cum = normalize.NaN, normalize.NaN
	key := strings.ToLower(a.Key)

	if row.Has(classify.MetricColumn) {
		var v any
		if _, sym, ok := row.Lookup("asset", "ticker", "symbol"); ok {
			s, _ := sym.(string)
			if !strings.EqualFold(strings.TrimSpace(s), a.Key) {
				return
			}
			_, v, _ = row.Lookup(classify.ValueColumns...)
		} else {
			v, _ = row.Value(key)
		}
		switch metricKind(row.Text(classify.MetricColumn)) {
		case kindDelta:
			delta = normalize.ParseNumber(v)
		case kindCumulative:
			cum = normalize.ParseNumber(v)
		}
		return
	}

	var matched bool
	for _, col := range row.Columns() {
		tokens := tokenize(col)
		if !hasToken(tokens, key) {
			continue
		}
		v, _ := row.Value(col)
		switch {
		case strings.Contains(col, "cum"):
			matched = true
			if !normalize.IsNumber(cum) {
				cum = normalize.ParseNumber(v)
			}
		case strings.Contains(col, "flow") || hasToken(tokens, "net"):
			matched = true
			if f := normalize.ParseNumber(v); normalize.IsNumber(f) {
				delta = addNaN(delta, f)
			}
		}
	}
	if matched {
		return
	}
	return fundSum(row, a), cum
}

// fundSum adds up per-fund columns, binding each fund to the first column that names it.
func fundSum(row model.RawRow, a Asset) float64 {
	sum := normalize.NaN
	claimed := make(map[string]bool, len(a.Funds))
	for _, col := range row.Columns() {
		if summaryColumns[col] || strings.EqualFold(col, a.Key) || isDateColumn(col) {
			continue
		}
		tokens := tokenize(col)
		for _, fund := range a.Funds {
			f := strings.ToLower(fund)
			if claimed[f] || !hasToken(tokens, f) {
				continue
			}
			claimed[f] = true
			v, _ := row.Value(col)
			if n := normalize.ParseNumber(v); normalize.IsNumber(n) {
				sum = addNaN(sum, n)
			}
			break
		}
	}
	return sum
}

func isDateColumn(col string) bool {
	for _, c := range classify.DateColumns {
		if col == c {
			return true
		}
	}
	return false
}

func tokenize(col string) []string {
	return strings.FieldsFunc(strings.ToLower(col), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func addNaN(acc, v float64) float64 {
	if !normalize.IsNumber(acc) {
		return v
	}
	return acc + v
}
