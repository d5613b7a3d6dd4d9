package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/hermes/internal/engine"
	"github.com/dshills/hermes/internal/event"
)

// FrameSource provides frame loop metrics. *engine.Engine implements it.
type FrameSource interface {
	Snapshot() engine.MetricsSnapshot
}

// StatsSource provides bus statistics. *event.Bus implements it.
type StatsSource interface {
	Stats() event.Stats
}

// Collector reads bus and engine statistics at scrape time.
type Collector struct {
	bus    StatsSource
	frames FrameSource

	published   *prometheus.Desc
	deliveries  *prometheus.Desc
	captured    *prometheus.Desc
	swallowed   *prometheus.Desc
	dropped     *prometheus.Desc
	liveIDs     *prometheus.Desc
	recycledIDs *prometheus.Desc
	eventTypes  *prometheus.Desc
	captures    *prometheus.Desc
	inboxDepth  *prometheus.Desc

	frameCount *prometheus.Desc
	frameTime  *prometheus.Desc
	phaseTime  *prometheus.Desc
	fps        *prometheus.Desc
	panics     *prometheus.Desc
	uptime     *prometheus.Desc
}

// NewCollector creates a collector over bus and, when non-nil, frames.
func NewCollector(bus StatsSource, frames FrameSource) *Collector {
	return &Collector{
		bus:    bus,
		frames: frames,

		published:   prometheus.NewDesc("hermes_bus_published_total", "Total number of publishes", nil, nil),
		deliveries:  prometheus.NewDesc("hermes_bus_deliveries_total", "Total number of handler invocations", nil, nil),
		captured:    prometheus.NewDesc("hermes_bus_captured_deliveries_total", "Handler invocations routed by a capture", nil, nil),
		swallowed:   prometheus.NewDesc("hermes_bus_swallowed_total", "Publishes absorbed by a capturer without a handler", nil, nil),
		dropped:     prometheus.NewDesc("hermes_bus_inbox_dropped_total", "Inbox posts rejected because it was full", nil, nil),
		liveIDs:     prometheus.NewDesc("hermes_bus_live_ids", "Acquired subscriber IDs", nil, nil),
		recycledIDs: prometheus.NewDesc("hermes_bus_recycled_ids", "Released subscriber IDs waiting for reuse", nil, nil),
		eventTypes:  prometheus.NewDesc("hermes_bus_event_types", "Event types with a slot list", nil, nil),
		captures:    prometheus.NewDesc("hermes_bus_captures", "Event types currently captured", nil, nil),
		inboxDepth:  prometheus.NewDesc("hermes_bus_inbox_depth", "Entries waiting in the inbox", nil, nil),

		frameCount: prometheus.NewDesc("hermes_engine_frames_total", "Total number of frames run", nil, nil),
		frameTime:  prometheus.NewDesc("hermes_engine_frame_seconds", "Frame work time", []string{"stat"}, nil),
		phaseTime:  prometheus.NewDesc("hermes_engine_phase_seconds", "Average time per frame phase", []string{"phase"}, nil),
		fps:        prometheus.NewDesc("hermes_engine_fps", "Smoothed frames per second", nil, nil),
		panics:     prometheus.NewDesc("hermes_engine_panics_total", "Frames aborted by a handler panic", nil, nil),
		uptime:     prometheus.NewDesc("hermes_engine_uptime_seconds", "Time since the engine was created", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.published, c.deliveries, c.captured, c.swallowed, c.dropped,
		c.liveIDs, c.recycledIDs, c.eventTypes, c.captures, c.inboxDepth,
	} {
		ch <- d
	}
	if c.frames != nil {
		for _, d := range []*prometheus.Desc{c.frameCount, c.frameTime, c.phaseTime, c.fps, c.panics, c.uptime} {
			ch <- d
		}
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.bus.Stats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	counter(c.published, s.Published)
	counter(c.deliveries, s.Deliveries)
	counter(c.captured, s.CapturedDeliveries)
	counter(c.swallowed, s.Swallowed)
	counter(c.dropped, s.InboxDropped)
	gauge(c.liveIDs, float64(s.LiveIDs))
	gauge(c.recycledIDs, float64(s.RecycledIDs))
	gauge(c.eventTypes, float64(s.EventTypes))
	gauge(c.captures, float64(s.Captures))
	gauge(c.inboxDepth, float64(s.InboxDepth))

	if c.frames == nil {
		return
	}
	f := c.frames.Snapshot()
	counter(c.frameCount, f.FrameCount)
	counter(c.panics, f.Panics)
	gauge(c.fps, f.FPS)
	gauge(c.uptime, f.Uptime.Seconds())
	gauge(c.frameTime, nsToSeconds(f.AvgFrameNs), "avg")
	gauge(c.frameTime, nsToSeconds(f.MinFrameNs), "min")
	gauge(c.frameTime, nsToSeconds(f.MaxFrameNs), "max")
	gauge(c.frameTime, nsToSeconds(f.LastFrameNs), "last")
	gauge(c.phaseTime, nsToSeconds(f.AvgUpdateNs), "update")
	gauge(c.phaseTime, nsToSeconds(f.AvgDrawNs), "draw")
}

func nsToSeconds(ns int64) float64 {
	return time.Duration(ns).Seconds()
}
