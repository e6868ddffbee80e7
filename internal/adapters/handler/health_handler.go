package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 5 * time.Second

const (
	statusUp   = "UP"
	statusDown = "DOWN"
)

// DependencyCheck reports whether a downstream dependency is usable.
type DependencyCheck func(ctx context.Context) error

// PingDatabase checks a database/sql pool. A nil pool is reported as down.
func PingDatabase(db *sql.DB) DependencyCheck {
	return func(ctx context.Context) error {
		if db == nil {
			return errors.New("database connection is not initialized")
		}
		return db.PingContext(ctx)
	}
}

// PingRedis checks a redis client. A nil client is reported as down.
func PingRedis(client redis.UniversalClient) DependencyCheck {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is not initialized")
		}
		return client.Ping(ctx).Err()
	}
}

type HealthHandler struct {
	checks    map[string]DependencyCheck
	startTime time.Time
	version   string
	now       func() time.Time
}

func NewHealthHandler(version string, checks map[string]DependencyCheck) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	if checks == nil {
		checks = map[string]DependencyCheck{}
	}
	return &HealthHandler{
		checks:    checks,
		startTime: time.Now(),
		version:   version,
		now:       time.Now,
	}
}

// HealthResponse follows Kubernetes health check conventions.
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Mount registers the probe endpoints on r.
func (h *HealthHandler) Mount(r chi.Router) {
	r.Get("/health", h.Live)
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
}

// Live only confirms the process is serving requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    statusUp,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Uptime:    h.now().Sub(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: statusUp}},
	})
}

// Ready runs every dependency check and answers 503 if any of them fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := statusUp, http.StatusOK
	checks := make(map[string]Check, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = Check{Status: statusDown, Message: err.Error()}
			status, code = statusDown, http.StatusServiceUnavailable
			continue
		}
		checks[name] = Check{Status: statusUp}
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Checks:    checks,
	})
}
