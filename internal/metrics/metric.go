// Package metrics turns rendered frames into run statistics: per-frame
// sortedness measures for charts and stored timelines, and Prometheus
// counters for finished runs.
package metrics

import "github.com/san-kum/sortviz/internal/engine"

// Metric folds a stream of frames into a single value.
type Metric interface {
	Name() string
	Observe(f engine.Frame)
	Value() float64
	Reset()
}
