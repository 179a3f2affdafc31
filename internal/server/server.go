// Package server exposes the latest snapshot over a read-only JSON API.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/normalize"
	"TreasuryWatch/internal/window"
)

// SnapshotSource provides the snapshot to serve. *scheduler.Scheduler satisfies it.
type SnapshotSource interface {
	Latest() *model.Snapshot
}

type handler struct {
	src    SnapshotSource
	window window.Window
}

// New builds the router. def is the window used when a request has none; reg may be nil.
func New(src SnapshotSource, def window.Window, reg *prometheus.Registry) http.Handler {
	h := &handler{src: src, window: def}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", h.health)
		r.Get("/mnav", h.ratioAll)
		r.Get("/mnav/{ticker}", h.ratioTicker)
		r.Get("/flows", h.flowsAll)
		r.Get("/flows/{asset}", h.flowsAsset)
		r.Get("/diagnostics", h.diagnostics)
	})
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	snap := h.src.Latest()
	if snap == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]any{"status": "starting"})
		return
	}
	status := "ok"
	if !snap.OK() {
		status = "degraded"
	}
	render.JSON(w, r, map[string]any{
		"status":     status,
		"run_id":     snap.RunID,
		"created_at": snap.CreatedAt,
		"failures":   snap.Failures,
	})
}

// query resolves the snapshot and window shared by the series endpoints. It writes the error
// response itself and returns ok=false when the request cannot be served.
func (h *handler) query(w http.ResponseWriter, r *http.Request) (*model.Snapshot, window.Window, bool) {
	win := h.window
	if q := r.URL.Query().Get("window"); q != "" {
		parsed, err := window.Parse(q)
		if err != nil {
			fail(w, r, http.StatusBadRequest, err.Error())
			return nil, win, false
		}
		win = parsed
	}
	snap := h.src.Latest()
	if snap == nil {
		fail(w, r, http.StatusServiceUnavailable, "no run has completed yet")
		return nil, win, false
	}
	return snap, win, true
}

type ratioResponse struct {
	RunID   string                             `json:"run_id"`
	Window  string                             `json:"window"`
	Series  map[model.Ticker][]model.RatioPoint `json:"series"`
	Summary string                             `json:"summary"`
}

func (h *handler) ratioAll(w http.ResponseWriter, r *http.Request) {
	snap, win, ok := h.query(w, r)
	if !ok {
		return
	}
	if snap.Ratio == nil {
		fail(w, r, http.StatusServiceUnavailable, snap.Failures[model.DatasetRatio])
		return
	}
	out := ratioResponse{
		RunID:   snap.RunID,
		Window:  win.String(),
		Series:  make(map[model.Ticker][]model.RatioPoint, len(snap.Ratio.Series)),
		Summary: snap.Ratio.Summary,
	}
	for t, s := range snap.Ratio.Series {
		out.Series[t] = window.Tail(s, win)
	}
	render.JSON(w, r, out)
}

func (h *handler) ratioTicker(w http.ResponseWriter, r *http.Request) {
	t, found := normalize.Ticker(chi.URLParam(r, "ticker"))
	if !found {
		fail(w, r, http.StatusNotFound, "unknown ticker")
		return
	}
	snap, win, ok := h.query(w, r)
	if !ok {
		return
	}
	if snap.Ratio == nil {
		fail(w, r, http.StatusServiceUnavailable, snap.Failures[model.DatasetRatio])
		return
	}
	render.JSON(w, r, map[string]any{
		"run_id":  snap.RunID,
		"ticker":  t,
		"window":  win.String(),
		"points":  window.Tail(snap.Ratio.Series[t], win),
		"missing": snap.Ratio.Missing[t],
	})
}

type flowResponse struct {
	RunID  string                     `json:"run_id"`
	Window string                     `json:"window"`
	Order  []string                   `json:"order"`
	Series map[string][]model.FlowDay `json:"series"`
}

func (h *handler) flowsAll(w http.ResponseWriter, r *http.Request) {
	snap, win, ok := h.query(w, r)
	if !ok {
		return
	}
	if snap.Flows == nil {
		fail(w, r, http.StatusServiceUnavailable, snap.Failures[model.DatasetFlows])
		return
	}
	out := flowResponse{
		RunID:  snap.RunID,
		Window: win.String(),
		Order:  snap.Flows.Order,
		Series: make(map[string][]model.FlowDay, len(snap.Flows.Series)),
	}
	for k, s := range snap.Flows.Series {
		out.Series[k] = window.Tail(s, win)
	}
	render.JSON(w, r, out)
}

func (h *handler) flowsAsset(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(chi.URLParam(r, "asset"))
	snap, win, ok := h.query(w, r)
	if !ok {
		return
	}
	if snap.Flows == nil {
		fail(w, r, http.StatusServiceUnavailable, snap.Failures[model.DatasetFlows])
		return
	}
	series, found := snap.Flows.Series[asset]
	if !found {
		fail(w, r, http.StatusNotFound, "unknown asset")
		return
	}
	render.JSON(w, r, map[string]any{
		"run_id": snap.RunID,
		"asset":  asset,
		"window": win.String(),
		"days":   window.Tail(series, win),
	})
}

func (h *handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	snap := h.src.Latest()
	if snap == nil {
		fail(w, r, http.StatusServiceUnavailable, "no run has completed yet")
		return
	}
	out := map[string]any{
		"run_id":   snap.RunID,
		"failures": snap.Failures,
	}
	if snap.Ratio != nil {
		out["rows"] = snap.Ratio.Rows
		out["missing"] = snap.Ratio.Missing
		out["summary"] = snap.Ratio.Summary
	}
	render.JSON(w, r, out)
}
