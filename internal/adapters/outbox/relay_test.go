package outbox

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/metrics"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/mocks"
)

var eventColumns = []string{"id", "event_type", "payload"}

type relayFixture struct {
	relay     *Relay
	db        sqlmock.Sqlmock
	publisher *mocks.MockEventPublisher
	metrics   *metrics.Metrics
	logHook   *logtest.Hook
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	log, hook := logtest.NewNullLogger()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	publisher := mocks.NewMockEventPublisher()

	return &relayFixture{
		relay:     NewRelay(db, "postgres://unused", publisher, m, log),
		db:        mock,
		publisher: publisher,
		metrics:   m,
		logHook:   hook,
	}
}

func TestRelay_ProcessEventByID(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"user_id":"u-1","email":"ada@example.com","role":"STUDENT","source":"registration"}`)

	t.Run("publishes_and_marks_processed", func(t *testing.T) {
		f := newRelayFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("evt-1", ports.EventAccountCreated, payload))
		f.db.ExpectExec(regexp.QuoteMeta(markProcessed)).WithArgs("evt-1").WillReturnResult(sqlmock.NewResult(0, 1))
		f.db.ExpectCommit()

		require.NoError(t, f.relay.processEventByID(ctx, "evt-1"))

		events := f.publisher.GetPublishedEvents()
		require.Len(t, events, 1)
		assert.Equal(t, ports.OutboxEvent{ID: "evt-1", EventType: ports.EventAccountCreated, Payload: payload}, events[0])
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OutboxEventsTotal.WithLabelValues(ports.EventAccountCreated, "published")))
	})

	t.Run("already_processed_is_skipped", func(t *testing.T) {
		f := newRelayFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows(eventColumns))
		f.db.ExpectRollback()

		require.NoError(t, f.relay.processEventByID(ctx, "evt-1"))
		assert.Zero(t, f.publisher.GetPublishCount())
	})

	t.Run("publish_failure_leaves_event_pending", func(t *testing.T) {
		f := newRelayFixture(t)
		f.publisher.PublishError = errors.New("broker unavailable")
		f.db.ExpectBegin()
		f.db.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("evt-1", ports.EventAccountCreated, payload))
		f.db.ExpectRollback()

		err := f.relay.processEventByID(ctx, "evt-1")

		assert.ErrorContains(t, err, "broker unavailable")
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OutboxEventsTotal.WithLabelValues(ports.EventAccountCreated, "failed")))
	})

	t.Run("invalid_payload_is_discarded", func(t *testing.T) {
		f := newRelayFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("evt-1", ports.EventStudentsAssigned, []byte("{not json")))
		f.db.ExpectExec(regexp.QuoteMeta(markProcessed)).WithArgs("evt-1").WillReturnResult(sqlmock.NewResult(0, 1))
		f.db.ExpectCommit()

		require.NoError(t, f.relay.processEventByID(ctx, "evt-1"))

		assert.Zero(t, f.publisher.GetPublishCount())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OutboxEventsTotal.WithLabelValues(ports.EventStudentsAssigned, "discarded")))
		require.NotNil(t, f.logHook.LastEntry())
		assert.Equal(t, "discarding event with invalid payload", f.logHook.LastEntry().Message)
	})
}

func TestRelay_ProcessUnprocessedEvents(t *testing.T) {
	f := newRelayFixture(t)
	f.publisher.FailOn = map[string]error{"evt-2": errors.New("nack")}

	f.db.ExpectBegin()
	f.db.ExpectQuery(regexp.QuoteMeta(selectPendingEvents)).
		WithArgs(maxEventsPerBatch).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("evt-1", ports.EventAccountCreated, []byte(`{}`)).
			AddRow("evt-2", ports.EventStudentsAssigned, []byte(`{}`)).
			AddRow("evt-3", ports.EventAccountCreated, []byte(`{}`)))
	f.db.ExpectExec(regexp.QuoteMeta(markProcessed)).WithArgs("evt-1").WillReturnResult(sqlmock.NewResult(0, 1))
	f.db.ExpectExec(regexp.QuoteMeta(markProcessed)).WithArgs("evt-3").WillReturnResult(sqlmock.NewResult(0, 1))
	f.db.ExpectCommit()

	n, err := f.relay.processUnprocessedEvents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, f.publisher.GetPublishCount())
	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, "evt-1", published[0].ID)
	assert.Equal(t, "evt-3", published[1].ID)
}

func TestRelay_ProcessUnprocessedEventsQueryFailure(t *testing.T) {
	f := newRelayFixture(t)
	f.db.ExpectBegin()
	f.db.ExpectQuery(regexp.QuoteMeta(selectPendingEvents)).WillReturnError(errors.New("too many connections"))
	f.db.ExpectRollback()

	_, err := f.relay.processUnprocessedEvents(context.Background())

	assert.EqualError(t, err, "too many connections")
}

func TestRelay_Ready(t *testing.T) {
	f := newRelayFixture(t)
	now := time.Now()
	f.relay.now = func() time.Time { return now }

	assert.ErrorContains(t, f.relay.Ready(context.Background()), "not listening")

	f.relay.setListening(true)
	f.relay.markSwept()
	assert.NoError(t, f.relay.Ready(context.Background()))

	now = now.Add(staleThreshold + time.Second)
	assert.ErrorContains(t, f.relay.Ready(context.Background()), "no outbox sweep")
}
