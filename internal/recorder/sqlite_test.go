package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TreasuryWatch/internal/model"
)

func sampleSnapshot() *model.Snapshot {
	ratio := &model.RatioResult{
		Series:  map[model.Ticker][]model.RatioPoint{model.MSTR: {{Date: "2024-01-02", Value: 20}}},
		Missing: map[model.Ticker]map[model.CanonicalField]int{model.SBET: {model.FieldNAV: 2}},
		Rows:    model.RowStats{Total: 4, Cells: 2},
		Summary: "long layout",
	}
	flows := &model.FlowResult{
		Rows:  2,
		Order: []string{"BTC", "ETH"},
		Series: map[string][]model.FlowDay{
			"BTC": {{Date: "2024-01-11", Delta: 5, Cumulative: 5}, {Date: "2024-01-12", Delta: -3, Cumulative: 2}},
		},
	}
	return &model.Snapshot{
		RunID:     "run-1",
		CreatedAt: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		Ratio:     ratio,
		Flows:     flows,
		Failures:  map[string]string{},
	}
}

func TestDatasetRuns(t *testing.T) {
	snap := sampleSnapshot()
	snap.Flows = nil
	snap.Failures[model.DatasetFlows] = "load x: status 500"

	runs := DatasetRuns(snap)
	require.Len(t, runs, 2)
	assert.Equal(t, DatasetRun{Dataset: model.DatasetRatio, Status: StatusOK, Rows: 4, Cells: 2, Points: 1, Message: "long layout"}, runs[0])
	assert.Equal(t, StatusFailed, runs[1].Status)
	assert.Equal(t, model.DatasetFlows, runs[1].Dataset)
}

func TestTickerDiagnostics(t *testing.T) {
	diags := TickerDiagnostics(sampleSnapshot().Ratio)
	require.Len(t, diags, len(model.Universe))
	assert.Equal(t, TickerDiagnostic{Ticker: model.MSTR, Points: 1}, diags[0])
	assert.Equal(t, TickerDiagnostic{Ticker: model.SBET, MissingNAV: 2}, diags[2])
	assert.Nil(t, TickerDiagnostics(nil))
}

func TestAssetDiagnostics(t *testing.T) {
	diags := AssetDiagnostics(sampleSnapshot().Flows)
	assert.Equal(t, []AssetDiagnostic{
		{Asset: "BTC", Days: 2, FirstDate: "2024-01-11", LastDate: "2024-01-12"},
		{Asset: "ETH"},
	}, diags)
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordRun(sampleSnapshot()))

	n, err := rec.RunCount("run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var tickers int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM ticker_diagnostics WHERE run_id = ?`, "run-1").Scan(&tickers))
	assert.Equal(t, len(model.Universe), tickers)

	var last string
	require.NoError(t, rec.db.QueryRow(`SELECT last_date FROM asset_diagnostics WHERE asset = 'BTC'`).Scan(&last))
	assert.Equal(t, "2024-01-12", last)
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(sampleSnapshot()))
	assert.NoError(t, rec.Close())
}
