package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TreasuryWatch/internal/model"
)

func metricRows(recs ...[4]string) []model.RawRow {
	rows := make([]model.RawRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, model.NewRawRow([]string{"date", "metric", "btc", "eth"}, []any{r[0], r[1], r[2], r[3]}))
	}
	return rows
}

var btc = Asset{Key: "BTC", Funds: BTCFunds}

func TestReconcile_DeltasOnly(t *testing.T) {
	got := Reconcile(metricRows(
		[4]string{"2024-01-11", "etf_net_flow_usd_millions", "5", ""},
		[4]string{"2024-01-12", "etf_net_flow_usd_millions", "-3", ""},
	), btc)
	assert.Equal(t, []model.FlowDay{
		{Date: "2024-01-11", Delta: 5, Cumulative: 5},
		{Date: "2024-01-12", Delta: -3, Cumulative: 2},
	}, got)
}

func TestReconcile_CumulativeOverrides(t *testing.T) {
	got := Reconcile(metricRows(
		[4]string{"2024-01-11", "net flow", "5", ""},
		[4]string{"2024-01-12", "net flow", "1", ""},
		[4]string{"2024-01-12", "cumulative net flow", "100", ""},
		[4]string{"2024-01-13", "net flow", "2", ""},
	), btc)
	require.Len(t, got, 3)
	assert.Equal(t, 5.0, got[0].Cumulative)
	assert.Equal(t, model.FlowDay{Date: "2024-01-12", Delta: 1, Cumulative: 100}, got[1])
	assert.Equal(t, 102.0, got[2].Cumulative)
}

func TestReconcile_GapDaysEmitZeroDelta(t *testing.T) {
	got := Reconcile(metricRows(
		[4]string{"2024-01-10", "net flow", "", ""},
		[4]string{"2024-01-11", "net flow", "5", ""},
		[4]string{"2024-01-12", "net flow", "", "7"},
		[4]string{"2024-01-15", "net flow", "4", ""},
	), btc)
	assert.Equal(t, []model.FlowDay{
		{Date: "2024-01-11", Delta: 5, Cumulative: 5},
		{Date: "2024-01-12", Delta: 0, Cumulative: 5},
		{Date: "2024-01-15", Delta: 4, Cumulative: 9},
	}, got)
}

func TestReconcile_Anchor(t *testing.T) {
	eth := Asset{Key: "ETH", Anchor: ETHLaunch, Funds: ETHFunds}
	got := Reconcile(metricRows(
		[4]string{"2024-07-22", "net flow", "", "99"},
		[4]string{"2024-07-23", "net flow", "", "106.6"},
		[4]string{"2024-07-24", "net flow", "", "-113.3"},
	), eth)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-07-23", got[0].Date)
	assert.Equal(t, 106.6, got[0].Cumulative)
	assert.InDelta(t, -6.7, got[1].Cumulative, 1e-9)
}

func TestReconcile_RunningSumInvariant(t *testing.T) {
	var recs [][4]string
	vals := []string{"1.5", "-2.25", "", "3", "0.1", "", "-7", "12.75"}
	for i, v := range vals {
		recs = append(recs, [4]string{fmt.Sprintf("2024-02-%02d", i+1), "net flow", v, ""})
	}
	got := Reconcile(metricRows(recs...), btc)
	require.Len(t, got, len(vals))
	var sum float64
	for _, d := range got {
		sum += d.Delta
		assert.Equal(t, sum, d.Cumulative, d.Date)
	}
}

func TestReconcile_AssetRows(t *testing.T) {
	cols := []string{"date", "asset", "metric", "value"}
	rows := []model.RawRow{
		model.NewRawRow(cols, []any{"2024-01-11", "BTC", "net_flow", "10"}),
		model.NewRawRow(cols, []any{"2024-01-11", "ETH", "net_flow", "99"}),
		model.NewRawRow(cols, []any{"2024-01-12", "BTC", "net_flow", "-4"}),
	}
	got := Reconcile(rows, btc)
	assert.Equal(t, []model.FlowDay{
		{Date: "2024-01-11", Delta: 10, Cumulative: 10},
		{Date: "2024-01-12", Delta: -4, Cumulative: 6},
	}, got)
}

func TestReconcile_WideKeywordColumns(t *testing.T) {
	cols := []string{"Date", "BTC Net Flow", "BTC Cumulative", "ETH Net Flow"}
	rows := []model.RawRow{
		model.NewRawRow(cols, []any{"2024-01-11", "5", "", "1"}),
		model.NewRawRow(cols, []any{"2024-01-12", "2", "50", "1"}),
	}
	got := Reconcile(rows, btc)
	assert.Equal(t, []model.FlowDay{
		{Date: "2024-01-11", Delta: 5, Cumulative: 5},
		{Date: "2024-01-12", Delta: 2, Cumulative: 50},
	}, got)
}

func TestReconcile_FundColumns(t *testing.T) {
	cols := []string{"Date", "IBIT", "FBTC", "GBTC", "Total"}
	rows := []model.RawRow{
		model.NewRawRow(cols, []any{"11 Jan 2024", "111.7", "227.0", "(95.1)", "655.3"}),
		model.NewRawRow(cols, []any{"12 Jan 2024", "386.0", "-", "(484.1)", "203.0"}),
		model.NewRawRow(cols, []any{"Total", "497.7", "227.0", "(579.2)", "858.3"}),
	}
	got := Reconcile(rows, btc)
	require.Len(t, got, 2)
	assert.InDelta(t, 243.6, got[0].Delta, 1e-9)
	assert.InDelta(t, -98.1, got[1].Delta, 1e-9)
	assert.InDelta(t, 145.5, got[1].Cumulative, 1e-9)
}

func TestReconcile_NoData(t *testing.T) {
	assert.Empty(t, Reconcile(nil, btc))
	assert.Empty(t, Reconcile(metricRows([4]string{"2024-01-11", "net flow", "", ""}), btc))
}

func TestReconcileAll(t *testing.T) {
	rows := metricRows(
		[4]string{"2024-07-23", "net flow", "5", "7"},
	)
	res := ReconcileAll(rows, DefaultAssets())
	assert.Equal(t, []string{"BTC", "ETH"}, res.Order)
	assert.Equal(t, 1, res.Rows)
	assert.Len(t, res.Series["BTC"], 1)
	assert.Equal(t, 7.0, res.Series["ETH"][0].Delta)
}
