package realtime

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Connections prometheus.Gauge
	Published   prometheus.Counter
	Delivered   prometheus.Counter
	Dropped     prometheus.Counter
}

// NewMetrics creates the hub collectors and registers them with reg unless it is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus", Subsystem: "realtime", Name: "connections",
			Help: "Open websocket connections.",
		}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus", Subsystem: "realtime", Name: "events_published_total",
			Help: "Timeline events published.",
		}),
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus", Subsystem: "realtime", Name: "events_delivered_total",
			Help: "Timeline events queued to a subscriber.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus", Subsystem: "realtime", Name: "events_dropped_total",
			Help: "Timeline events dropped because a subscriber was too slow.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Connections, m.Published, m.Delivered, m.Dropped)
	}
	return m
}
