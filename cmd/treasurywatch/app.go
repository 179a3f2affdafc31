package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"TreasuryWatch/internal/collector"
	"TreasuryWatch/internal/config"
	"TreasuryWatch/internal/metrics"
	"TreasuryWatch/internal/notifier"
	"TreasuryWatch/internal/recorder"
	"TreasuryWatch/internal/scheduler"
	"TreasuryWatch/internal/window"
)

// app wires the long-lived components shared by run and serve.
type app struct {
	cfg      *config.Config
	sched    *scheduler.Scheduler
	metrics  *metrics.Metrics
	telegram *notifier.TelegramNotifier
	rec      recorder.Recorder
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	opts := httpOptions(cfg)
	col := collector.NewCollector(
		collector.NewLoader(cfg.Sources.Ratio, opts),
		collector.NewLoader(cfg.Sources.Flows, opts),
		cfg.FlowAssets(),
	)
	log.Printf("[INFO] sources: mnav=%s flows=%s", col.Ratio.Name(), col.Flows.Name())

	a := &app{cfg: cfg, metrics: metrics.New()}

	if cfg.Database.Path != "" {
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Printf("[WARN] create data dir: %v", err)
			}
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.Path)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			a.rec = recorder.NewNoopRecorder()
		} else {
			a.rec = sr
		}
	} else {
		a.rec = recorder.NewNoopRecorder()
	}

	var n scheduler.Notifier
	if cfg.Telegram.BotToken != "" {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = a.telegram
	}

	win, err := window.Parse(cfg.Server.Window)
	if err != nil {
		a.rec.Close()
		return nil, fmt.Errorf("server.window: %w", err)
	}
	a.sched = scheduler.NewScheduler(ctx, col, n, a.rec, a.metrics)
	a.sched.Window = win
	return a, nil
}

func (a *app) close() {
	if err := a.rec.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}
