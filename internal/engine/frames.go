package engine

import (
	"slices"
	"time"
)

// FrameCounter measures frame duration and frame rate.
type FrameCounter struct {
	last    time.Time
	dt      float64
	frames  uint64
	fps     EMA
	history []float64 // ring buffer of instantaneous fps
	next    int
	full    bool
}

// NewFrameCounter creates a counter keeping historySize fps samples,
// smoothing the reported rate with the given EMA alpha.
func NewFrameCounter(historySize int, alpha float64) *FrameCounter {
	if historySize < 1 {
		historySize = 1
	}
	return &FrameCounter{
		fps:     EMA{Alpha: alpha},
		history: make([]float64, historySize),
	}
}

// Begin marks the start of the first frame. Later calls are ignored.
func (f *FrameCounter) Begin(now time.Time) {
	if f.last.IsZero() {
		f.last = now
	}
}

// Update marks the end of a frame at now.
func (f *FrameCounter) Update(now time.Time) {
	f.frames++
	if !f.last.IsZero() {
		f.dt = now.Sub(f.last).Seconds()
		if f.dt > 0 {
			inst := 1 / f.dt
			f.fps.Update(inst)
			f.history[f.next] = inst
			f.next = (f.next + 1) % len(f.history)
			f.full = f.full || f.next == 0
		}
	}
	f.last = now
}

// DT returns the duration of the last frame in seconds.
func (f *FrameCounter) DT() float64 { return f.dt }

// FPS returns the smoothed frame rate.
func (f *FrameCounter) FPS() float64 { return f.fps.Value() }

// Frames returns the number of completed frames.
func (f *FrameCounter) Frames() uint64 { return f.frames }

// History returns the recorded instantaneous frame rates, oldest first.
func (f *FrameCounter) History() []float64 {
	if !f.full {
		return slices.Clone(f.history[:f.next])
	}
	return append(slices.Clone(f.history[f.next:]), f.history[:f.next]...)
}
