package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// SQLRepository is the PostgreSQL store behind every repository port.
type SQLRepository struct {
	db *sql.DB
}

var (
	_ ports.UserRepository     = (*SQLRepository)(nil)
	_ ports.ProfileRepository  = (*SQLRepository)(nil)
	_ ports.MaterialRepository = (*SQLRepository)(nil)
	_ ports.LessonRepository   = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Migrate creates the schema if it does not exist yet.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func insertOutboxEvent(ctx context.Context, tx *sql.Tx, eventType string, payload []byte) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)",
		uuid.NewString(),
		eventType,
		payload,
	)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
