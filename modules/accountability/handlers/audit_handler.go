package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/events"
	"github.com/rendiciones/rendiciones/pkg/eventbus"
)

var auditEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "accountability",
	Subsystem: "audit",
	Name:      "events_total",
	Help:      "Total number of entity change events seen by the audit handler, by entity and change type.",
}, []string{"entity", "change"})

// AuditHandler logs every committed entity change.
type AuditHandler struct {
	logger *logrus.Entry
}

func RegisterAuditHandlers(bus eventbus.EventBus, logger *logrus.Logger) *AuditHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	handler := &AuditHandler{logger: logger.WithField("component", "audit")}
	bus.Subscribe(handler.onEntityChanged)
	return handler
}

func (h *AuditHandler) onEntityChanged(ev *events.EntityChangedV1) {
	if h == nil || ev == nil {
		return
	}
	auditEvents.WithLabelValues(ev.EntityType, ev.ChangeType).Inc()
	fields := logrus.Fields{
		"event_id":    ev.EventID.String(),
		"request_id":  ev.RequestID,
		"actor":       ev.ActorID,
		"operation":   ev.Operation,
		"change_type": ev.ChangeType,
		"entity_type": ev.EntityType,
		"entity_id":   ev.EntityID,
	}
	if ev.Field != "" {
		fields["field"] = ev.Field
	}
	h.logger.WithFields(fields).Info("entity changed")
}
