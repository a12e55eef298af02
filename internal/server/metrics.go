package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "widgettweaks",
				Name:      "renders_total",
				Help:      "Preview renders by view and outcome.",
			},
			[]string{"view", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "widgettweaks",
				Name:      "render_duration_seconds",
				Help:      "Time spent rendering preview templates.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"view"},
		),
	}
	for _, c := range []prometheus.Collector{m.renders, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
