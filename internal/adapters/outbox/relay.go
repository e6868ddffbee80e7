package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/metrics"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/config"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	staleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

const (
	selectEventByID = `
		SELECT id, event_type, payload
		FROM outbox_events
		WHERE id = $1 AND processed_at IS NULL
		FOR UPDATE SKIP LOCKED`

	selectPendingEvents = `
		SELECT id, event_type, payload
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	markProcessed = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`
)

// Relay forwards rows of the outbox_events table to the event publisher. It
// wakes up on the NOTIFY sent by the insert trigger and sweeps the table
// periodically for anything a notification missed. A row is marked processed
// in the same transaction that locked it, after the publish succeeded.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.EventPublisher
	dbCB      *gobreaker.CircuitBreaker
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time

	mu            sync.RWMutex
	lastProcessed time.Time
	listening     bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.EventPublisher, m *metrics.Metrics, log logrus.FieldLogger) *Relay {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL", log),
		metrics:       m,
		log:           log.WithField("component", "outbox-relay"),
		now:           time.Now,
		lastProcessed: time.Now(),
	}
}

// Ready reports an error when the relay cannot currently make progress: the
// database breaker is open, the listener is down, or nothing has been swept
// for longer than the stale threshold.
func (r *Relay) Ready(ctx context.Context) error {
	if r.dbCB.State() == gobreaker.StateOpen {
		return errors.New("database circuit breaker is open")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.listening {
		return errors.New("not listening for outbox notifications")
	}
	if r.now().Sub(r.lastProcessed) > staleThreshold {
		return errors.New("no outbox sweep completed recently")
	}
	return nil
}

// Start listens for outbox notifications until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.log.WithError(err).Warn("listener error")
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.setListening(true)
	r.log.WithField("channel", outboxChannelName).Info("listening for outbox notifications")

	r.sweep(ctx)

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("shutting down")
			r.setListening(false)
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				// the listener reconnected; anything sent meanwhile is only
				// picked up by a sweep
				r.log.Warn("listener reconnected")
				r.setListening(true)
				r.sweep(ctx)
				continue
			}
			if err := r.processEventByID(ctx, n.Extra); err != nil {
				r.log.WithError(err).WithField("event_id", n.Extra).Error("failed to relay event")
			}

		case <-ticker.C:
			go listener.Ping()
			r.sweep(ctx)
		}
	}
}

func (r *Relay) sweep(ctx context.Context) {
	n, err := r.processUnprocessedEvents(ctx)
	if err != nil {
		r.log.WithError(err).Error("outbox sweep failed")
		return
	}
	if n > 0 {
		r.log.WithField("count", n).Info("outbox sweep relayed events")
	}
}

func (r *Relay) setListening(v bool) {
	r.mu.Lock()
	r.listening = v
	r.mu.Unlock()
}

func (r *Relay) markSwept() {
	r.mu.Lock()
	r.lastProcessed = r.now()
	r.mu.Unlock()
}

// processEventByID relays a single event. An id that is already processed or
// locked by another relay is skipped.
func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var evt ports.OutboxEvent
		err = tx.QueryRowContext(ctx, selectEventByID, eventID).Scan(&evt.ID, &evt.EventType, &evt.Payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.relay(ctx, tx, evt); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents relays up to one batch of pending events in
// creation order and returns how many were marked processed. Events that fail
// to publish stay pending for the next sweep.
func (r *Relay) processUnprocessedEvents(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	processed := 0
	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, selectPendingEvents, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		var events []ports.OutboxEvent
		for rows.Next() {
			var evt ports.OutboxEvent
			if err := rows.Scan(&evt.ID, &evt.EventType, &evt.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			events = append(events, evt)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, evt := range events {
			err := r.relay(ctx, tx, evt)
			var pubErr *publishError
			if errors.As(err, &pubErr) {
				continue
			}
			if err != nil {
				return nil, err
			}
			processed++
		}
		return nil, tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	r.markSwept()
	return processed, nil
}

type publishError struct{ err error }

func (e *publishError) Error() string { return "publish: " + e.err.Error() }
func (e *publishError) Unwrap() error { return e.err }

// relay publishes evt and marks it processed inside tx. A payload that is not
// valid JSON is marked processed without publishing so it cannot block the
// queue.
func (r *Relay) relay(ctx context.Context, tx *sql.Tx, evt ports.OutboxEvent) error {
	entry := r.log.WithFields(logrus.Fields{
		"event_id":   evt.ID,
		"event_type": evt.EventType,
	})

	if !json.Valid(evt.Payload) {
		entry.Warn("discarding event with invalid payload")
		r.metrics.OutboxEventDiscarded(evt.EventType)
	} else {
		err := r.publisher.Publish(ctx, evt)
		r.metrics.OutboxEvent(evt.EventType, err)
		if err != nil {
			entry.WithError(err).Warn("failed to publish event")
			return &publishError{err: err}
		}
	}

	if _, err := tx.ExecContext(ctx, markProcessed, evt.ID); err != nil {
		return err
	}
	entry.Debug("event relayed")
	return nil
}
