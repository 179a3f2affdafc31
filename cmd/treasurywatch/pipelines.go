package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"TreasuryWatch/internal/collector"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/window"
)

// outputFlags are shared by the pipeline commands.
type outputFlags struct {
	window string
	json   bool
}

func (o *outputFlags) set(f *flag.FlagSet) {
	f.StringVar(&o.window, "window", "all", "trailing window: all, 30d, 90d, 12w, 6m, 1y")
	f.BoolVar(&o.json, "json", false, "print JSON instead of a table")
}

// --- mnavCmd ---

type mnavCmd struct {
	src string
	out outputFlags
}

func (*mnavCmd) Name() string     { return "mnav" }
func (*mnavCmd) Synopsis() string { return "computes daily mNAV per ticker from a metrics export" }
func (*mnavCmd) Usage() string {
	return `mnav [-src <file|url>] [-window 30d] [-json]

Loads the metrics export (CSV, XLSX, HTML or JSON), resolves price, shares, NAV, market cap and
precomputed ratios per ticker and day, and prints the mNAV series. -src defaults to sources.ratio.
`
}
func (c *mnavCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.src, "src", "", "metrics export path or URL")
	c.out.set(f)
}

func (c *mnavCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	src := c.src
	if src == "" {
		src = cfg.Sources.Ratio
	}
	if src == "" {
		fmt.Fprintln(os.Stderr, "Error: -src is required when sources.ratio is not configured.")
		return subcommands.ExitUsageError
	}
	win, err := window.Parse(c.out.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	col := collector.NewCollector(collector.NewLoader(src, httpOptions(cfg)), nil, nil)
	res, err := col.CollectRatio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: mNAV dataset could not be loaded: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.out.json {
		return printJSON(os.Stdout, windowRatio(res, win))
	}
	printRatio(os.Stdout, res, win)
	return subcommands.ExitSuccess
}

// --- flowsCmd ---

type flowsCmd struct {
	src string
	out outputFlags
}

func (*flowsCmd) Name() string     { return "flows" }
func (*flowsCmd) Synopsis() string { return "rebuilds daily ETF net flows and cumulative totals" }
func (*flowsCmd) Usage() string {
	return `flows [-src <file|url>] [-window 30d] [-json]

Loads the flows export and prints each configured asset's daily net flow and cumulative total.
-src defaults to sources.flows.
`
}
func (c *flowsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.src, "src", "", "flows export path or URL")
	c.out.set(f)
}

func (c *flowsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	src := c.src
	if src == "" {
		src = cfg.Sources.Flows
	}
	if src == "" {
		fmt.Fprintln(os.Stderr, "Error: -src is required when sources.flows is not configured.")
		return subcommands.ExitUsageError
	}
	win, err := window.Parse(c.out.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	col := collector.NewCollector(nil, collector.NewLoader(src, httpOptions(cfg)), cfg.FlowAssets())
	res, err := col.CollectFlows(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: flows dataset could not be loaded: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.out.json {
		return printJSON(os.Stdout, windowFlows(res, win))
	}
	printFlows(os.Stdout, res, win)
	return subcommands.ExitSuccess
}

// --- runCmd ---

type runCmd struct {
	out outputFlags
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "runs both pipelines once over the configured sources" }
func (*runCmd) Usage() string {
	return `run [-window 30d] [-json]

Loads both configured datasets concurrently, runs both pipelines and journals the run. A dataset
that fails to load is reported and does not stop the other.
`
}
func (c *runCmd) SetFlags(f *flag.FlagSet) { c.out.set(f) }

func (c *runCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err == nil {
		err = cfg.RequireSources()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	win, err := window.Parse(c.out.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	app, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.close()

	snap := app.sched.RunNow()
	if c.out.json {
		out := struct {
			RunID    string            `json:"run_id"`
			Ratio    *model.RatioResult `json:"mnav,omitempty"`
			Flows    *model.FlowResult  `json:"flows,omitempty"`
			Failures map[string]string `json:"failures,omitempty"`
		}{snap.RunID, windowRatio(snap.Ratio, win), windowFlows(snap.Flows, win), snap.Failures}
		if status := printJSON(os.Stdout, out); status != subcommands.ExitSuccess {
			return status
		}
	} else {
		fmt.Printf("run %s\n\n", snap.RunID)
		if snap.Ratio != nil {
			printRatio(os.Stdout, snap.Ratio, win)
			fmt.Println()
		}
		if snap.Flows != nil {
			printFlows(os.Stdout, snap.Flows, win)
		}
		for name, msg := range snap.Failures {
			fmt.Fprintf(os.Stderr, "%s dataset could not be loaded: %s\n", name, msg)
		}
	}
	if !snap.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func windowRatio(r *model.RatioResult, w window.Window) *model.RatioResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Series = make(map[model.Ticker][]model.RatioPoint, len(r.Series))
	for t, s := range r.Series {
		out.Series[t] = window.Tail(s, w)
	}
	return &out
}

func windowFlows(f *model.FlowResult, w window.Window) *model.FlowResult {
	if f == nil {
		return nil
	}
	out := *f
	out.Series = make(map[string][]model.FlowDay, len(f.Series))
	for k, s := range f.Series {
		out.Series[k] = window.Tail(s, w)
	}
	return &out
}

func printJSON(w io.Writer, v any) subcommands.ExitStatus {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printRatio(w io.Writer, r *model.RatioResult, win window.Window) {
	fmt.Fprintln(w, r.Summary)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ticker\tdate\tmnav")
	for _, t := range model.Universe {
		for _, p := range window.Tail(r.Series[t], win) {
			fmt.Fprintf(tw, "%s\t%s\t%.4f\n", t, p.Date, p.Value)
		}
	}
	tw.Flush()
}

func printFlows(w io.Writer, f *model.FlowResult, win window.Window) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "asset\tdate\tdelta\tcum")
	for _, key := range f.Order {
		for _, d := range window.Tail(f.Series[key], win) {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\n", key, d.Date, d.Delta, d.Cumulative)
		}
	}
	tw.Flush()
}
