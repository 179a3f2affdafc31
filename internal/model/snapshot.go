package model

import "time"

// Dataset names.
const (
	DatasetRatio = "mnav"
	DatasetFlows = "flows"
)

// Snapshot is the read-only outcome of one reconciliation run over freshly loaded datasets.
// A nil Ratio or Flows means that dataset could not be loaded; Failures holds the reason.
type Snapshot struct {
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Ratio     *RatioResult      `json:"mnav,omitempty"`
	Flows     *FlowResult       `json:"flows,omitempty"`
	Failures  map[string]string `json:"failures,omitempty"`
}

// OK reports whether both datasets loaded.
func (s *Snapshot) OK() bool { return len(s.Failures) == 0 }
