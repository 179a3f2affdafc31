package model

import "fmt"

// CanonicalField is the closed set of semantic fields a metric or column can map to.
type CanonicalField int

const (
	FieldPrice CanonicalField = iota
	FieldShares
	FieldNAV
	FieldMarketCap
	FieldRatio

	numFields
)

// Fields lists every canonical field in declaration order.
var Fields = []CanonicalField{FieldPrice, FieldShares, FieldNAV, FieldMarketCap, FieldRatio}

var fieldNames = [numFields]string{
	FieldPrice:     "price",
	FieldShares:    "sharesOutstanding",
	FieldNAV:       "netAssetValue",
	FieldMarketCap: "marketCap",
	FieldRatio:     "precomputedRatio",
}

func (f CanonicalField) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("CanonicalField(%d)", int(f))
	}
	return fieldNames[f]
}

// MarshalText lets fields key JSON maps by name.
func (f CanonicalField) MarshalText() ([]byte, error) {
	if f < 0 || f >= numFields {
		return nil, fmt.Errorf("invalid canonical field %d", int(f))
	}
	return []byte(fieldNames[f]), nil
}

// Ticker is a symbol of the fixed equity universe.
type Ticker string

const (
	MSTR  Ticker = "MSTR"
	MTPLF Ticker = "MTPLF"
	SBET  Ticker = "SBET"
	BMNR  Ticker = "BMNR"
	DFDV  Ticker = "DFDV"
	UPXI  Ticker = "UPXI"
)

// Universe is the only set of tickers ever used as output keys, in matching order.
var Universe = []Ticker{MSTR, MTPLF, SBET, BMNR, DFDV, UPXI}

// Layout is the shape of an input table.
type Layout int

const (
	// LayoutWide carries one value per semantic field (or per ticker) as separate columns.
	LayoutWide Layout = iota
	// LayoutLong carries one (date, ticker, metric, value) observation per row.
	LayoutLong
)

func (l Layout) String() string {
	if l == LayoutLong {
		return "long"
	}
	return "wide"
}
