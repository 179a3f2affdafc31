package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"TreasuryWatch/internal/collector"
	"TreasuryWatch/internal/metrics"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/notifier"
	"TreasuryWatch/internal/recorder"
	"TreasuryWatch/internal/window"
)

// Notifier delivers alerts. *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler reloads both datasets on a cron schedule and keeps the latest snapshot.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier // nil disables alerts
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics // nil disables metrics
	Window    window.Window
	Ctx       context.Context

	mu     sync.Mutex // one reload at a time
	latest atomic.Pointer[model.Snapshot]
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Metrics:   m,
		Window:    window.All,
		Ctx:       ctx,
	}
}

// Register adds the reload task.
func (s *Scheduler) Register(reloadCron string) error {
	if _, err := s.Cron.AddFunc(reloadCron, func() { s.reload() }); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a reload immediately (for manual trigger / run on start).
func (s *Scheduler) RunNow() *model.Snapshot {
	return s.reload()
}

// Latest returns the most recent snapshot, or nil before the first run.
func (s *Scheduler) Latest() *model.Snapshot {
	return s.latest.Load()
}

func (s *Scheduler) reload() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Println("[INFO] running reload")
	snap := s.Collector.Collect(s.Ctx)
	s.latest.Store(snap)

	if s.Metrics != nil {
		s.Metrics.Observe(snap)
	}
	if err := s.Recorder.RecordRun(snap); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if !snap.OK() {
		var b strings.Builder
		b.WriteString("❌ <b>TreasuryWatch reload</b>\n")
		for _, name := range []string{model.DatasetRatio, model.DatasetFlows} {
			if msg, ok := snap.Failures[name]; ok {
				b.WriteString(notifier.FormatFailure(name, msg))
			}
		}
		s.trySend(b.String())
	}
	log.Printf("[INFO] reload %s done (failures: %d)", snap.RunID, len(snap.Failures))
	return snap
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	var cmd string
	if f := strings.Fields(command); len(f) > 0 {
		cmd = strings.ToLower(f[0])
	}
	if cmd == "/run" {
		return notifier.FormatRunReport(s.reload(), s.Window)
	}

	snap := s.Latest()
	if snap == nil {
		return "no run yet"
	}
	switch cmd {
	case "/status":
		return notifier.FormatRunReport(snap, s.Window)
	case "/mnav":
		if snap.Ratio == nil {
			return notifier.FormatFailure(model.DatasetRatio, snap.Failures[model.DatasetRatio])
		}
		return notifier.FormatRatio(snap.Ratio, s.Window)
	case "/flows":
		if snap.Flows == nil {
			return notifier.FormatFailure(model.DatasetFlows, snap.Failures[model.DatasetFlows])
		}
		return notifier.FormatFlows(snap.Flows, s.Window)
	default:
		return "commands:\n• /status\n• /mnav\n• /flows\n• /run"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
