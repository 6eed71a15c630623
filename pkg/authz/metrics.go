package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	decisionAllowed = "allowed"
	decisionDenied  = "denied"
	decisionError   = "error"
)

var (
	decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authz",
		Subsystem: "enforcer",
		Name:      "decisions_total",
		Help:      "Total number of authorization decisions broken down by object, action and result.",
	}, []string{"object", "action", "result"})

	decisionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "authz",
		Subsystem: "enforcer",
		Name:      "latency_seconds",
		Help:      "Latency distribution for authorization decisions.",
		Buckets: []float64{
			0.00001, 0.00005, 0.0001, 0.0005,
			0.001, 0.005, 0.01, 0.05,
		},
	}, []string{"result"})
)

func recordDecision(req Request, result string, latency time.Duration) {
	decisions.With(prometheus.Labels{
		"object": req.Object,
		"action": req.Action,
		"result": result,
	}).Inc()
	decisionLatency.With(prometheus.Labels{"result": result}).Observe(latency.Seconds())
}
