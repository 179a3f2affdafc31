package recorder

import (
	"sort"

	"TreasuryWatch/internal/model"
)

// Run status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// DatasetRun is the journal line for one dataset within a run.
type DatasetRun struct {
	Dataset string
	Status  string
	Rows    int
	Cells   int
	Points  int
	Message string
}

// TickerDiagnostic is the per-ticker outcome of a ratio pass.
type TickerDiagnostic struct {
	Ticker        model.Ticker
	Points        int
	MissingPrice  int
	MissingShares int
	MissingNAV    int
}

// AssetDiagnostic is the per-asset outcome of a flow pass.
type AssetDiagnostic struct {
	Asset     string
	Days      int
	FirstDate string
	LastDate  string
}

// Recorder journals run outcomes. Series themselves are never stored.
type Recorder interface {
	RecordRun(snap *model.Snapshot) error
	Close() error
}

// DatasetRuns flattens a snapshot into one journal line per dataset.
func DatasetRuns(snap *model.Snapshot) []DatasetRun {
	var out []DatasetRun
	if r := snap.Ratio; r != nil {
		out = append(out, DatasetRun{
			Dataset: model.DatasetRatio, Status: StatusOK,
			Rows: r.Rows.Total, Cells: r.Rows.Cells, Points: r.Points(), Message: r.Summary,
		})
	}
	if f := snap.Flows; f != nil {
		days := 0
		for _, s := range f.Series {
			days += len(s)
		}
		out = append(out, DatasetRun{Dataset: model.DatasetFlows, Status: StatusOK, Rows: f.Rows, Points: days})
	}
	names := make([]string, 0, len(snap.Failures))
	for name := range snap.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, DatasetRun{Dataset: name, Status: StatusFailed, Message: snap.Failures[name]})
	}
	return out
}

// TickerDiagnostics lists every universe ticker of a ratio result in universe order.
func TickerDiagnostics(r *model.RatioResult) []TickerDiagnostic {
	if r == nil {
		return nil
	}
	out := make([]TickerDiagnostic, 0, len(model.Universe))
	for _, t := range model.Universe {
		m := r.Missing[t]
		out = append(out, TickerDiagnostic{
			Ticker:        t,
			Points:        len(r.Series[t]),
			MissingPrice:  m[model.FieldPrice],
			MissingShares: m[model.FieldShares],
			MissingNAV:    m[model.FieldNAV],
		})
	}
	return out
}

// AssetDiagnostics lists the flow assets in configured order.
func AssetDiagnostics(f *model.FlowResult) []AssetDiagnostic {
	if f == nil {
		return nil
	}
	out := make([]AssetDiagnostic, 0, len(f.Order))
	for _, key := range f.Order {
		s := f.Series[key]
		d := AssetDiagnostic{Asset: key, Days: len(s)}
		if len(s) > 0 {
			d.FirstDate, d.LastDate = s[0].Date, s[len(s)-1].Date
		}
		out = append(out, d)
	}
	return out
}
