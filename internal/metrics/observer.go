package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/hermes/internal/event"
)

// Observer counts publishes and deliveries per event type. Pass it to
// event.New with event.WithObserver and register it with a Registry.
type Observer struct {
	publishTotal    *prometheus.CounterVec
	deliveriesTotal *prometheus.CounterVec
	capturedTotal   *prometheus.CounterVec
}

// NewObserver creates an Observer.
func NewObserver() *Observer {
	return &Observer{
		publishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_event_publish_total",
				Help: "Total number of publishes per event type",
			},
			[]string{"event"},
		),
		deliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_event_deliveries_total",
				Help: "Total number of handler invocations per event type",
			},
			[]string{"event"},
		),
		capturedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_event_captured_publish_total",
				Help: "Publishes routed to a capturing subscriber per event type",
			},
			[]string{"event"},
		),
	}
}

// ObservePublish implements event.Observer.
func (o *Observer) ObservePublish(_ event.Tag, name string, deliveries int, captured bool) {
	o.publishTotal.WithLabelValues(name).Inc()
	o.deliveriesTotal.WithLabelValues(name).Add(float64(deliveries))
	if captured {
		o.capturedTotal.WithLabelValues(name).Inc()
	}
}

// Describe implements prometheus.Collector.
func (o *Observer) Describe(ch chan<- *prometheus.Desc) {
	o.publishTotal.Describe(ch)
	o.deliveriesTotal.Describe(ch)
	o.capturedTotal.Describe(ch)
}

// Collect implements prometheus.Collector.
func (o *Observer) Collect(ch chan<- prometheus.Metric) {
	o.publishTotal.Collect(ch)
	o.deliveriesTotal.Collect(ch)
	o.capturedTotal.Collect(ch)
}
