// Package metrics exposes run outcomes as Prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/recorder"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Runs         *prometheus.CounterVec
	RatioPoints  *prometheus.GaugeVec
	RatioMissing *prometheus.GaugeVec
	RowsDropped  *prometheus.GaugeVec
	FlowDays     *prometheus.GaugeVec
	LastRun      prometheus.Gauge
}

// New creates the collectors on a fresh registry, along with the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treasurywatch",
			Name:      "dataset_runs_total",
			Help:      "Dataset passes by outcome.",
		}, []string{"dataset", "status"}),
		RatioPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "treasurywatch",
			Name:      "mnav_points",
			Help:      "Computable mNAV points per ticker in the latest run.",
		}, []string{"ticker"}),
		RatioMissing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "treasurywatch",
			Name:      "mnav_missing_inputs",
			Help:      "Non-computable days per ticker and missing input in the latest run.",
		}, []string{"ticker", "field"}),
		RowsDropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "treasurywatch",
			Name:      "mnav_rows_dropped",
			Help:      "Ratio rows that produced no cell in the latest run, by reason.",
		}, []string{"reason"}),
		FlowDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "treasurywatch",
			Name:      "flow_days",
			Help:      "Days in each asset's flow series in the latest run.",
		}, []string{"asset"}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "treasurywatch",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the latest run.",
		}),
	}
	m.Registry.MustRegister(
		m.Runs, m.RatioPoints, m.RatioMissing, m.RowsDropped, m.FlowDays, m.LastRun,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe folds a snapshot into the collectors.
func (m *Metrics) Observe(snap *model.Snapshot) {
	for _, d := range recorder.DatasetRuns(snap) {
		m.Runs.WithLabelValues(d.Dataset, d.Status).Inc()
	}
	if r := snap.Ratio; r != nil {
		for _, d := range recorder.TickerDiagnostics(r) {
			t := string(d.Ticker)
			m.RatioPoints.WithLabelValues(t).Set(float64(d.Points))
			m.RatioMissing.WithLabelValues(t, model.FieldPrice.String()).Set(float64(d.MissingPrice))
			m.RatioMissing.WithLabelValues(t, model.FieldShares.String()).Set(float64(d.MissingShares))
			m.RatioMissing.WithLabelValues(t, model.FieldNAV.String()).Set(float64(d.MissingNAV))
		}
		m.RowsDropped.WithLabelValues("no_date").Set(float64(r.Rows.NoDate))
		m.RowsDropped.WithLabelValues("no_ticker").Set(float64(r.Rows.NoTicker))
		m.RowsDropped.WithLabelValues("unclassified").Set(float64(r.Rows.Unclassified))
	}
	for _, d := range recorder.AssetDiagnostics(snap.Flows) {
		m.FlowDays.WithLabelValues(d.Asset).Set(float64(d.Days))
	}
	m.LastRun.Set(float64(snap.CreatedAt.Unix()))
}
