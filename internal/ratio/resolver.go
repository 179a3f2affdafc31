// Package ratio computes mNAV per ticker and day from aggregated cells.
package ratio

import (
	"math"

	"TreasuryWatch/internal/model"
)

// Method records which fallback produced a value.
type Method int

const (
	// MethodComputed is price × shares ÷ nav.
	MethodComputed Method = iota
	// MethodPrecomputed passes through a ratio the source already computed.
	MethodPrecomputed
	// MethodMarketCap is market cap ÷ nav.
	MethodMarketCap
)

func (m Method) String() string {
	switch m {
	case MethodComputed:
		return "computed"
	case MethodPrecomputed:
		return "precomputed"
	case MethodMarketCap:
		return "market-cap"
	}
	return "unknown"
}

// Outcome is the result of resolving one cell. Missing is set only when the cell is not
// computable and lists which of price, shares and nav blocked it; nav = 0 counts as missing nav.
type Outcome struct {
	Value   float64
	Method  Method
	Missing []model.CanonicalField
}

// Resolve applies the fallback chain: computed, then precomputed, then market cap.
// It never returns an infinite or NaN value.
func Resolve(c *model.DailyCell) (Outcome, bool) {
	price, shares, nav := c.Get(model.FieldPrice), c.Get(model.FieldShares), c.Get(model.FieldNAV)
	navOK := c.Has(model.FieldNAV) && nav != 0

	if c.Has(model.FieldPrice) && c.Has(model.FieldShares) && navOK {
		if v, ok := finite(price * shares / nav); ok {
			return Outcome{Value: v, Method: MethodComputed}, true
		}
	}
	if c.Has(model.FieldRatio) {
		return Outcome{Value: c.Get(model.FieldRatio), Method: MethodPrecomputed}, true
	}
	if c.Has(model.FieldMarketCap) && navOK {
		if v, ok := finite(c.Get(model.FieldMarketCap) / nav); ok {
			return Outcome{Value: v, Method: MethodMarketCap}, true
		}
	}

	var missing []model.CanonicalField
	if !c.Has(model.FieldPrice) {
		missing = append(missing, model.FieldPrice)
	}
	if !c.Has(model.FieldShares) {
		missing = append(missing, model.FieldShares)
	}
	if !navOK {
		missing = append(missing, model.FieldNAV)
	}
	return Outcome{Missing: missing}, false
}

func finite(v float64) (float64, bool) {
	// price × shares can overflow for garbage inputs
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
