package model

import "math"

// CellKey addresses one ticker on one calendar day (YYYY-MM-DD).
type CellKey struct {
	Ticker Ticker
	Date   string
}

// DailyCell holds at most one finite value per canonical field. The zero value is an empty cell.
type DailyCell struct {
	values [numFields]float64
	set    [numFields]bool
}

// Get returns the field value, or NaN when unset.
func (c *DailyCell) Get(f CanonicalField) float64 {
	if f < 0 || f >= numFields || !c.set[f] {
		return math.NaN()
	}
	return c.values[f]
}

// Has reports whether the field holds a finite value.
func (c *DailyCell) Has(f CanonicalField) bool {
	return f >= 0 && f < numFields && c.set[f]
}

// Merge assigns v to f only when v is finite and f is not already set. It reports whether
// the cell changed.
func (c *DailyCell) Merge(f CanonicalField, v float64) bool {
	if f < 0 || f >= numFields || c.set[f] || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	c.values[f] = v
	c.set[f] = true
	return true
}

// RatioPoint is one computed mNAV observation.
type RatioPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// FlowDay is one day of an asset's flow series.
type FlowDay struct {
	Date       string  `json:"date"`
	Delta      float64 `json:"delta"`
	Cumulative float64 `json:"cum"`
}

// RowStats counts how raw rows fared during aggregation.
type RowStats struct {
	Total        int `json:"total"`
	NoDate       int `json:"no_date"`
	NoTicker     int `json:"no_ticker"`
	Unclassified int `json:"unclassified"`
	Cells        int `json:"cells"`
}

// RatioResult is the output of one ratio pass.
type RatioResult struct {
	Layout  Layout                            `json:"-"`
	Series  map[Ticker][]RatioPoint           `json:"series"`
	Missing map[Ticker]map[CanonicalField]int `json:"missing"`
	Rows    RowStats                          `json:"rows"`
	Summary string                            `json:"summary"`
}

// Points is the total number of emitted points across tickers.
func (r *RatioResult) Points() int {
	n := 0
	for _, s := range r.Series {
		n += len(s)
	}
	return n
}

// FlowResult is the output of one flow pass. Order lists the asset keys as configured.
type FlowResult struct {
	Rows   int                  `json:"rows"`
	Order  []string             `json:"order"`
	Series map[string][]FlowDay `json:"series"`
}
