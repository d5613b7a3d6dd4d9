package engine

import (
	"math"
	"sync/atomic"
	"time"
)

// Metrics tracks frame loop timings. Recording happens on the engine
// goroutine; Snapshot is safe from any goroutine.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	updateTotalNs atomic.Int64
	drawTotalNs   atomic.Int64
	panics        atomic.Uint64

	fpsBits atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker started at now.
func NewMetrics(now time.Time) *Metrics {
	m := &Metrics{startTime: now}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(math.MaxInt64)
	return m
}

// RecordFrame records one frame's update and draw phase durations.
func (m *Metrics) RecordFrame(update, draw time.Duration) {
	ns := (update + draw).Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.updateTotalNs.Add(update.Nanoseconds())
	m.drawTotalNs.Add(draw.Nanoseconds())

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFPS stores the smoothed frame rate.
func (m *Metrics) RecordFPS(fps float64) {
	m.fpsBits.Store(math.Float64bits(fps))
}

// RecordPanic counts a frame aborted by a handler panic.
func (m *Metrics) RecordPanic() {
	m.panics.Add(1)
}

// Snapshot returns a snapshot of current metrics at now.
func (m *Metrics) Snapshot(now time.Time) MetricsSnapshot {
	frames := m.frameCount.Load()

	s := MetricsSnapshot{
		Uptime:      now.Sub(m.startTime),
		FrameCount:  frames,
		MaxFrameNs:  m.frameMaxNs.Load(),
		LastFrameNs: m.lastFrameNs.Load(),
		Panics:      m.panics.Load(),
		FPS:         math.Float64frombits(m.fpsBits.Load()),
	}
	if frames > 0 {
		s.AvgFrameNs = m.frameTotalNs.Load() / int64(frames)
		s.AvgUpdateNs = m.updateTotalNs.Load() / int64(frames)
		s.AvgDrawNs = m.drawTotalNs.Load() / int64(frames)
		s.MinFrameNs = m.frameMinNs.Load()
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	FrameCount  uint64
	AvgFrameNs  int64
	MinFrameNs  int64
	MaxFrameNs  int64
	LastFrameNs int64
	AvgUpdateNs int64
	AvgDrawNs   int64
	Panics      uint64

	// FPS is the smoothed wall-clock frame rate, including frame limiting.
	FPS float64
}

// Busy returns the fraction of the target frame time spent working.
func (s MetricsSnapshot) Busy(targetFPS int) float64 {
	if targetFPS <= 0 {
		return 0
	}
	budget := float64(time.Second) / float64(targetFPS)
	return float64(s.AvgFrameNs) / budget
}
