package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"TreasuryWatch/internal/server"
)

type serveCmd struct {
	addr       string
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "reloads on a schedule and serves the latest run over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-addr :8080] [-run-on-start=true]

Reloads both datasets on schedule.cron, serves the latest results under /api and Prometheus
metrics under /metrics. With Telegram configured, failures are alerted and /status, /mnav,
/flows and /run commands are answered.
`
}
func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (default server.addr)")
	f.BoolVar(&c.runOnStart, "run-on-start", true, "run both pipelines before the first scheduled reload")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] TreasuryWatch starting...")

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("[FATAL] load config: %v", err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[FATAL] config validation: %v", err)
		return subcommands.ExitFailure
	}
	if err := cfg.RequireSources(); err != nil {
		log.Printf("[FATAL] config validation: %v", err)
		return subcommands.ExitFailure
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := a.sched.Register(cfg.Schedule.Cron); err != nil {
		log.Printf("[FATAL] register cron tasks: %v", err)
		return subcommands.ExitFailure
	}
	a.sched.Start()
	defer a.sched.Stop()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, a.sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}
	if c.runOnStart {
		go a.sched.RunNow()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(a.sched, a.sched.Window, a.metrics.Registry),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Printf("[ERROR] http server: %v", err)
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	log.Println("[INFO] TreasuryWatch stopped")
	return subcommands.ExitSuccess
}
