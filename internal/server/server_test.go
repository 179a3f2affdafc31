package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TreasuryWatch/internal/metrics"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/window"
)

type staticSource struct{ snap *model.Snapshot }

func (s staticSource) Latest() *model.Snapshot { return s.snap }

func snapshot() *model.Snapshot {
	series := map[model.Ticker][]model.RatioPoint{}
	missing := map[model.Ticker]map[model.CanonicalField]int{}
	for _, t := range model.Universe {
		series[t] = []model.RatioPoint{}
		missing[t] = map[model.CanonicalField]int{}
	}
	series[model.MSTR] = []model.RatioPoint{
		{Date: "2024-01-02", Value: 1.5},
		{Date: "2024-01-03", Value: 1.6},
		{Date: "2024-01-04", Value: 1.7},
	}
	missing[model.SBET][model.FieldNAV] = 3
	return &model.Snapshot{
		RunID:     "run-1",
		CreatedAt: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		Ratio:     &model.RatioResult{Series: series, Missing: missing, Summary: "ok"},
		Flows: &model.FlowResult{
			Rows:   2,
			Order:  []string{"BTC"},
			Series: map[string][]model.FlowDay{"BTC": {{Date: "2024-01-11", Delta: 5, Cumulative: 5}}},
		},
		Failures: map[string]string{},
	}
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if rec.Header().Get("Content-Type") != "" && rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	h := New(staticSource{snapshot()}, window.All, nil)
	rec, body := get(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = get(t, New(staticSource{}, window.All, nil), "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRatio_Window(t *testing.T) {
	h := New(staticSource{snapshot()}, window.All, nil)
	rec, body := get(t, h, "/api/mnav?window=2d")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2d", body["window"])
	series := body["series"].(map[string]any)
	assert.Len(t, series["MSTR"], 2)
	assert.Len(t, series["SBET"], 0)

	rec, _ = get(t, h, "/api/mnav?window=forever")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRatio_Ticker(t *testing.T) {
	h := New(staticSource{snapshot()}, window.Last30, nil)
	rec, body := get(t, h, "/api/mnav/mstr")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MSTR", body["ticker"])
	assert.Len(t, body["points"], 3)

	rec, body = get(t, h, "/api/mnav/SBET")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"netAssetValue": 3.0}, body["missing"])

	rec, _ = get(t, h, "/api/mnav/AAPL")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFlows(t *testing.T) {
	h := New(staticSource{snapshot()}, window.All, nil)
	rec, body := get(t, h, "/api/flows")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"BTC"}, body["order"])

	rec, body = get(t, h, "/api/flows/btc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["days"], 1)

	rec, _ = get(t, h, "/api/flows/DOGE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFailedDataset(t *testing.T) {
	snap := snapshot()
	snap.Ratio = nil
	snap.Failures[model.DatasetRatio] = "load x: status 500"
	h := New(staticSource{snap}, window.All, nil)

	rec, body := get(t, h, "/api/mnav")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "load x: status 500", body["error"])

	rec, body = get(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestDiagnostics(t *testing.T) {
	h := New(staticSource{snapshot()}, window.All, nil)
	rec, body := get(t, h, "/api/diagnostics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["summary"])
	assert.Contains(t, body, "missing")
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.Observe(snapshot())
	h := New(staticSource{snapshot()}, window.All, m.Registry)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `treasurywatch_mnav_points{ticker="MSTR"} 3`)
}
