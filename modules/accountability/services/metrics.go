package services

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

var (
	accountabilityOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accountability",
		Subsystem: "service",
		Name:      "operations_total",
		Help:      "Total number of accountability operations broken down by operation and result.",
	}, []string{"operation", "result"})

	accountabilityOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "accountability",
		Subsystem: "service",
		Name:      "operation_duration_seconds",
		Help:      "Duration of accountability operations, lock wait and store flush included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	accountabilityDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accountability",
		Subsystem: "service",
		Name:      "denials_total",
		Help:      "Total number of denied operations broken down by object and action.",
	}, []string{"object", "action"})
)

func recordOperation(operation string, started time.Time, err error) {
	accountabilityOperations.WithLabelValues(operation, resultLabel(err)).Inc()
	accountabilityOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func recordDenial(object, action string) {
	accountabilityDenials.WithLabelValues(object, action).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, serrors.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, serrors.ErrValidation):
		return "invalid"
	case errors.Is(err, serrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, serrors.ErrInvalidAssignee):
		return "invalid_assignee"
	case errors.Is(err, serrors.ErrStorage):
		return "storage"
	}
	return "error"
}
