package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/window"
)

// FormatRunReport formats a full run into a Telegram message.
func FormatRunReport(snap *model.Snapshot, w window.Window) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>TreasuryWatch</b> | %s\n", snap.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("run %s, %s\n\n", shortID(snap.RunID), humanize.Time(snap.CreatedAt)))

	if snap.Ratio != nil {
		b.WriteString(FormatRatio(snap.Ratio, w))
		b.WriteString("\n")
	}
	if snap.Flows != nil {
		b.WriteString(FormatFlows(snap.Flows, w))
		b.WriteString("\n")
	}

	names := make([]string, 0, len(snap.Failures))
	for name := range snap.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(FormatFailure(name, snap.Failures[name]))
	}
	return b.String()
}

// FormatRatio lists the latest mNAV per ticker with its range over the window.
func FormatRatio(r *model.RatioResult, w window.Window) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>mNAV</b> (%s)\n", w))
	for _, t := range model.Universe {
		series := window.Tail(r.Series[t], w)
		if len(series) == 0 {
			m := r.Missing[t]
			b.WriteString(fmt.Sprintf("  %s: n/a (missing price %d, shares %d, nav %d)\n",
				t, m[model.FieldPrice], m[model.FieldShares], m[model.FieldNAV]))
			continue
		}
		values := make([]float64, len(series))
		for i, p := range series {
			values[i] = p.Value
		}
		last := series[len(series)-1]
		hi, lo, _ := window.Range(values)
		pos, _ := window.Position(last.Value, hi, lo)
		b.WriteString(fmt.Sprintf("  %s: %.2fx @ %s | range %.2f~%.2f (%.0f%%)\n",
			t, last.Value, last.Date, lo, hi, pos*100))
	}
	b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(r.Summary)))
	return b.String()
}

// FormatFlows lists the latest day and the window's net flow per asset.
func FormatFlows(f *model.FlowResult, w window.Window) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💵 <b>ETF flows</b> (%s, %s rows)\n", w, humanize.Comma(int64(f.Rows))))
	for _, key := range f.Order {
		series := window.Tail(f.Series[key], w)
		if len(series) == 0 {
			b.WriteString(fmt.Sprintf("  %s: n/a\n", key))
			continue
		}
		var net float64
		for _, d := range series {
			net += d.Delta
		}
		last := series[len(series)-1]
		b.WriteString(fmt.Sprintf("  %s: %+.1f @ %s | cum %.1f | window net %+.1f\n",
			key, last.Delta, last.Date, last.Cumulative, net))
	}
	return b.String()
}

// FormatFailure formats a dataset that could not be loaded.
func FormatFailure(dataset, msg string) string {
	return fmt.Sprintf("⚠️ <b>%s</b> dataset could not be loaded: %s\n", dataset, html.EscapeString(msg))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
