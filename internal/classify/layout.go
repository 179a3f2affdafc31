package classify

import "TreasuryWatch/internal/model"

// Detect reports Long when the columns include "metric" together with a value column,
// and Wide otherwise.
func Detect(columns []string) model.Layout {
	var metric, value bool
	for _, c := range columns {
		switch model.ColumnKey(c) {
		case MetricColumn:
			metric = true
		case "val", "value", "amount":
			value = true
		}
	}
	if metric && value {
		return model.LayoutLong
	}
	return model.LayoutWide
}
