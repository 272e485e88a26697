package storage

import (
	"github.com/rs/zerolog"

	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/run"
)

// Recorder persists every finished run handed to it by a run.Controller.
type Recorder struct {
	store    *Store
	timeline *metrics.Timeline
	logger   zerolog.Logger
	lastID   string
	onSaved  func(id string)
}

type RecorderOption func(*Recorder)

// WithTimeline stores the timeline's points next to each record and resets it afterwards.
func WithTimeline(t *metrics.Timeline) RecorderOption {
	return func(r *Recorder) { r.timeline = t }
}

func WithRecorderLogger(l zerolog.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

func WithOnSaved(fn func(id string)) RecorderOption {
	return func(r *Recorder) { r.onSaved = fn }
}

func NewRecorder(s *Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: s, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) Record(sum run.Summary) {
	rec := FromSummary(sum)

	var points []metrics.Point
	if r.timeline != nil {
		points = r.timeline.Points()
		r.timeline.Reset()
	}

	id, err := r.store.Save(rec, points)
	if err != nil {
		r.logger.Error().Err(err).Str("algorithm", rec.Algorithm).Msg("save run")
		return
	}
	r.lastID = id
	r.logger.Debug().Str("run_id", id).Msg("run saved")
	if r.onSaved != nil {
		r.onSaved(id)
	}
}

// LastID is the ID of the most recently saved run. Not safe for concurrent use
// with Record; read it after the controller's Wait returns.
func (r *Recorder) LastID() string { return r.lastID }

// FromSummary converts a run summary into its stored form.
func FromSummary(sum run.Summary) RunRecord {
	rec := RunRecord{
		Algorithm:   sum.Algorithm.Key(),
		Size:        sum.Size,
		SpeedMs:     sum.SpeedMs,
		Seed:        sum.Seed,
		Outcome:     string(sum.Outcome),
		Comparisons: sum.Stats.Comparisons,
		Swaps:       sum.Stats.Swaps,
		Steps:       sum.Steps,
		Duration:    sum.Duration,
		Timestamp:   sum.Started,
	}
	if sum.Err != nil {
		rec.Error = sum.Err.Error()
	}
	return rec
}
