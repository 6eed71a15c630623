package handlers

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/events"
	"github.com/rendiciones/rendiciones/pkg/eventbus"
)

func TestAuditHandler_LogsAndCounts(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bus := eventbus.NewEventPublisher(logger)
	RegisterAuditHandlers(bus, logger)

	before := testutil.ToFloat64(auditEvents.WithLabelValues("presentation", events.ChangeUpdated))

	ev := events.NewEntityChangedV1("req-1", "t1", "close_presentation", events.ChangeUpdated, "presentation", "p1")
	ev.Field = "status"
	require.NoError(t, bus.PublishE(ev))

	require.InDelta(t, before+1, testutil.ToFloat64(auditEvents.WithLabelValues("presentation", events.ChangeUpdated)), 0)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, "p1", entry.Data["entity_id"])
	require.Equal(t, "status", entry.Data["field"])
	require.Equal(t, "req-1", entry.Data["request_id"])
}

func TestAuditHandler_IgnoresOtherEvents(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bus := eventbus.NewEventPublisher(logger)
	RegisterAuditHandlers(bus, logger)

	err := bus.PublishE("not an entity event")
	require.ErrorIs(t, err, eventbus.ErrNoSubscribers)
	for _, e := range hook.AllEntries() {
		require.NotEqual(t, "entity changed", e.Message)
	}
}
