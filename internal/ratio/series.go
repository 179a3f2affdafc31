package ratio

import (
	"fmt"
	"sort"
	"strings"

	"TreasuryWatch/internal/aggregate"
	"TreasuryWatch/internal/model"
)

// Build runs one full ratio pass: aggregate the rows, resolve every cell and order the
// computable points by date per ticker. Every universe ticker has a series and a counter map,
// possibly empty.
func Build(rows []model.RawRow) *model.RatioResult {
	agg := aggregate.Aggregate(rows)

	res := &model.RatioResult{
		Layout:  agg.Layout,
		Series:  make(map[model.Ticker][]model.RatioPoint, len(model.Universe)),
		Missing: make(map[model.Ticker]map[model.CanonicalField]int, len(model.Universe)),
		Rows:    agg.Stats,
	}
	for _, t := range model.Universe {
		res.Series[t] = []model.RatioPoint{}
		res.Missing[t] = map[model.CanonicalField]int{}
	}

	keys := make([]model.CellKey, 0, len(agg.Cells))
	for k := range agg.Cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Ticker != keys[j].Ticker {
			return keys[i].Ticker < keys[j].Ticker
		}
		return keys[i].Date < keys[j].Date
	})

	var methods [3]int
	for _, k := range keys {
		out, ok := Resolve(agg.Cells[k])
		if !ok {
			for _, f := range out.Missing {
				res.Missing[k.Ticker][f]++
			}
			continue
		}
		methods[out.Method]++
		res.Series[k.Ticker] = append(res.Series[k.Ticker], model.RatioPoint{Date: k.Date, Value: out.Value})
	}

	res.Summary = summarize(res, methods)
	return res
}

func summarize(res *model.RatioResult, methods [3]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s layout: %d rows, %d cells, %d points (computed %d, precomputed %d, market-cap %d)",
		res.Layout, res.Rows.Total, res.Rows.Cells, res.Points(),
		methods[MethodComputed], methods[MethodPrecomputed], methods[MethodMarketCap])
	if dropped := res.Rows.NoDate + res.Rows.NoTicker; dropped > 0 {
		fmt.Fprintf(&b, "; dropped %d (no date %d, no ticker %d)", dropped, res.Rows.NoDate, res.Rows.NoTicker)
	}
	if res.Rows.Unclassified > 0 {
		fmt.Fprintf(&b, "; ignored %d unclassified", res.Rows.Unclassified)
	}
	b.WriteString(" |")
	for _, t := range model.Universe {
		fmt.Fprintf(&b, " %s=%d", t, len(res.Series[t]))
	}
	return b.String()
}
