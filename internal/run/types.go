package run

import (
	"time"

	"github.com/san-kum/sortviz/internal/engine"
)

const (
	MaxSpeedMs     = 500
	DefaultSpeedMs = 100
)

// Listener is the UI side of the controller. Callbacks arrive from both the
// caller of a controller method and the worker goroutine; implementations must
// not call back into the Controller synchronously.
type Listener interface {
	OnStatus(text string)
	OnStatsChanged(comparisons, swaps uint64)
	OnRunStateChanged(running bool)
}

type nopListener struct{}

func (nopListener) OnStatus(string)               {}
func (nopListener) OnStatsChanged(uint64, uint64) {}
func (nopListener) OnRunStateChanged(bool)        {}

// RunState is a point-in-time copy of the controller state.
type RunState struct {
	Running     bool
	Comparisons uint64
	Swaps       uint64
	Algorithm   engine.Algorithm
	SpeedMs     int
	Size        int
}

type Outcome string

const (
	Completed Outcome = "completed"
	Stopped   Outcome = "stopped"
	Failed    Outcome = "failed"
)

// Summary describes one finished run. It never carries the sequence itself.
type Summary struct {
	Algorithm engine.Algorithm
	Size      int
	Seed      int64 // seed that rebuilds the input with sequence.Permutation, 0 if unknown
	SpeedMs   int
	Outcome   Outcome
	Stats     engine.Stats
	Steps     int
	Started   time.Time
	Duration  time.Duration
	Err       error
}

// Recorder is handed a Summary after every run, on the worker goroutine.
type Recorder interface {
	Record(s Summary)
}

type RecorderFunc func(s Summary)

func (f RecorderFunc) Record(s Summary) { f(s) }
