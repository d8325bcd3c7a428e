package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	LabelDecision = "decision"
	LabelSuccess  = "success"
)

// Collector records gate decisions and authority round trips.
type Collector struct {
	decisions      *prometheus.CounterVec
	reviewDuration *prometheus.HistogramVec
}

// NewCollector creates the gate metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokengate_decisions_total",
				Help: "Total number of gate decisions by outcome",
			},
			[]string{LabelDecision},
		),
		reviewDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tokengate_review_duration_seconds",
				Help:    "Duration of token reviews against the authority in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{LabelSuccess},
		),
	}
	reg.MustRegister(c.decisions, c.reviewDuration)
	return c
}

// RecordDecision counts one decision. A nil Collector records nothing.
func (c *Collector) RecordDecision(decision string) {
	if c == nil {
		return
	}
	c.decisions.WithLabelValues(decision).Inc()
}

// RecordReview observes one authority round trip.
func (c *Collector) RecordReview(success bool, duration time.Duration) {
	if c == nil {
		return
	}
	c.reviewDuration.WithLabelValues(boolToString(success)).Observe(duration.Seconds())
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
