package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/handler"
)

func serveHealth(t *testing.T, h *handler.HealthHandler, path string) (*httptest.ResponseRecorder, handler.HealthResponse) {
	t.Helper()
	r := chi.NewRouter()
	h.Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec, decode[handler.HealthResponse](t, rec)
}

func TestHealthHandler_Live(t *testing.T) {
	h := handler.NewHealthHandler("", map[string]handler.DependencyCheck{
		"database": handler.PingDatabase(nil),
	})

	for _, path := range []string{"/health", "/health/live"} {
		rec, body := serveHealth(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "UP", body.Status)
		assert.Equal(t, "unknown", body.Version)
		assert.Contains(t, body.Checks, "process")
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := handler.NewHealthHandler("1.2.3", map[string]handler.DependencyCheck{
		"database": handler.PingDatabase(db),
		"redis":    handler.PingRedis(client),
	})

	t.Run("all_up", func(t *testing.T) {
		mock.ExpectPing()

		rec, body := serveHealth(t, h, "/health/ready")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "UP", body.Status)
		assert.Equal(t, "UP", body.Checks["database"].Status)
		assert.Equal(t, "UP", body.Checks["redis"].Status)
	})

	t.Run("database_down", func(t *testing.T) {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec, body := serveHealth(t, h, "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "DOWN", body.Status)
		assert.Equal(t, "DOWN", body.Checks["database"].Status)
		assert.Equal(t, "connection refused", body.Checks["database"].Message)
		assert.Equal(t, "UP", body.Checks["redis"].Status)
	})

	t.Run("redis_down", func(t *testing.T) {
		mock.ExpectPing()
		mr.Close()

		rec, body := serveHealth(t, h, "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "UP", body.Checks["database"].Status)
		assert.Equal(t, "DOWN", body.Checks["redis"].Status)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_CustomCheck(t *testing.T) {
	h := handler.NewHealthHandler("test", map[string]handler.DependencyCheck{
		"broker": func(ctx context.Context) error { return errors.New("channel closed") },
	})

	rec, body := serveHealth(t, h, "/health/ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "channel closed", body.Checks["broker"].Message)
}
