package flow

import (
	"sort"

	"TreasuryWatch/internal/aggregate"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/normalize"
)

type observation struct {
	delta, cum float64
}

// Reconcile builds one asset's daily series. Every date in the source at or after the
// anchor is a candidate; the series starts at the first candidate that carries a delta or a
// cumulative value and from then on emits every candidate date. A reported cumulative is
// trusted and resets the running total; otherwise the running total advances by the delta,
// or by 0 when the day has none.
func Reconcile(rows []model.RawRow, a Asset) []model.FlowDay {
	obs := make(map[string]*observation)
	for _, row := range rows {
		date, ok := aggregate.RowDate(row)
		if !ok {
			continue
		}
		o, seen := obs[date]
		if !seen {
			o = &observation{delta: normalize.NaN, cum: normalize.NaN}
			obs[date] = o
		}
		d, c := extract(row, a)
		if !normalize.IsNumber(o.delta) {
			o.delta = d
		}
		if !normalize.IsNumber(o.cum) {
			o.cum = c
		}
	}

	dates := make([]string, 0, len(obs))
	for d := range obs {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := []model.FlowDay{}
	var running float64
	started := false
	for _, d := range dates {
		if a.Anchor != "" && d < a.Anchor {
			continue
		}
		o := obs[d]
		hasDelta, hasCum := normalize.IsNumber(o.delta), normalize.IsNumber(o.cum)
		if !started {
			if !hasDelta && !hasCum {
				continue
			}
			started = true
		}
		var delta float64
		if hasDelta {
			delta = o.delta
		}
		if hasCum {
			running = o.cum
		} else {
			running += delta
		}
		out = append(out, model.FlowDay{Date: d, Delta: delta, Cumulative: running})
	}
	return out
}

// ReconcileAll runs Reconcile for each asset over the same rows.
func ReconcileAll(rows []model.RawRow, assets []Asset) *model.FlowResult {
	res := &model.FlowResult{
		Rows:   len(rows),
		Order:  make([]string, 0, len(assets)),
		Series: make(map[string][]model.FlowDay, len(assets)),
	}
	for _, a := range assets {
		res.Order = append(res.Order, a.Key)
		res.Series[a.Key] = Reconcile(rows, a)
	}
	return res
}
