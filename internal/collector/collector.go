// Package collector loads the source tables and runs both pipelines over them.
package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"TreasuryWatch/internal/flow"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/ratio"
)

// Collector owns the two dataset loaders. Each Collect call is a fresh pass; nothing is reused
// from earlier runs.
type Collector struct {
	Ratio  Loader
	Flows  Loader
	Assets []flow.Asset
}

// NewCollector creates a new Collector. A nil assets slice selects the default BTC and ETH series.
func NewCollector(ratioLoader, flowLoader Loader, assets []flow.Asset) *Collector {
	if len(assets) == 0 {
		assets = flow.DefaultAssets()
	}
	return &Collector{Ratio: ratioLoader, Flows: flowLoader, Assets: assets}
}

// CollectRatio loads the ratio dataset and computes the per-ticker series.
func (c *Collector) CollectRatio(ctx context.Context) (*model.RatioResult, error) {
	rows, err := load(ctx, c.Ratio)
	if err != nil {
		return nil, err
	}
	return ratio.Build(rows), nil
}

// CollectFlows loads the flow dataset and reconciles every configured asset.
func (c *Collector) CollectFlows(ctx context.Context) (*model.FlowResult, error) {
	rows, err := load(ctx, c.Flows)
	if err != nil {
		return nil, err
	}
	return flow.ReconcileAll(rows, c.Assets), nil
}

// Collect loads both datasets concurrently. A failed dataset is reported in Failures and
// leaves its result nil; the other dataset is unaffected.
func (c *Collector) Collect(ctx context.Context) *model.Snapshot {
	snap := &model.Snapshot{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Failures:  make(map[string]string),
	}

	var (
		ratioRes           *model.RatioResult
		flowRes            *model.FlowResult
		ratioErr, flowsErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		ratioRes, ratioErr = c.CollectRatio(ctx)
		return nil
	})
	g.Go(func() error {
		flowRes, flowsErr = c.CollectFlows(ctx)
		return nil
	})
	_ = g.Wait()

	if ratioErr != nil {
		log.Printf("[WARN] %s dataset failed: %v", model.DatasetRatio, ratioErr)
		snap.Failures[model.DatasetRatio] = ratioErr.Error()
	} else {
		snap.Ratio = ratioRes
		log.Printf("[INFO] %s: %s", model.DatasetRatio, ratioRes.Summary)
	}
	if flowsErr != nil {
		log.Printf("[WARN] %s dataset failed: %v", model.DatasetFlows, flowsErr)
		snap.Failures[model.DatasetFlows] = flowsErr.Error()
	} else {
		snap.Flows = flowRes
		log.Printf("[INFO] %s: %d rows, %d assets", model.DatasetFlows, flowRes.Rows, len(flowRes.Order))
	}
	return snap
}

func load(ctx context.Context, l Loader) ([]model.RawRow, error) {
	if l == nil {
		return nil, fmt.Errorf("no source configured")
	}
	rows, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Name(), err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load %s: %w", l.Name(), ErrNoRows)
	}
	return rows, nil
}
