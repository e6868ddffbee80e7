package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/handler"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/messaging"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/metrics"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/outbox"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/config"
)

func main() {
	cfg := config.LoadRelayConfig()
	log := config.NewLogger(cfg.LogLevel, nil).WithField("service", "outbox-relay")
	log.Info("starting outbox relay")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to rabbitmq")
	}
	defer broker.Close()
	log.WithField("queue", cfg.QueueName).Info("connected to rabbitmq")

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	relay := outbox.NewRelay(db, cfg.DatabaseURL, broker, m, log)

	health := handler.NewHealthHandler(os.Getenv("APP_VERSION"), map[string]handler.DependencyCheck{
		"database": handler.PingDatabase(db),
		"broker":   broker.Ping,
		"relay":    relay.Ready,
	})
	mux := chi.NewRouter()
	health.Mount(mux)
	mux.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.HealthAddr).Info("starting health server")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health server error")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errChan:
		log.WithError(err).Error("relay stopped, shutting down")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shut down health server")
	}
	log.Info("shutdown complete")
}
