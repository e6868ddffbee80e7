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

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/handler"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/identity"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/metrics"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/middleware"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/repository"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/revocation"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/config"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, nil)
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("failed to apply database schema")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	log.Info("connected to redis")

	revocations := revocation.NewRedisStore(redisClient, config.NewCircuitBreaker("Redis-Auth", log))
	tokens := services.NewTokenService(
		cfg.JWTPrivateKey,
		cfg.JWTPublicKey,
		cfg.JWTIssuer,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		repo,
		revocations,
	)
	identityVerifier := services.NewIdentityVerifier(cfg.GoogleClientIDs, newIDTokenVerifier(ctx, cfg, log), log)
	if !identityVerifier.Enabled() {
		log.Warn("identity token login is disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	router := handler.NewRouter(handler.Router{
		Auth:      handler.NewAuthHandler(services.NewAuthService(repo, tokens, identityVerifier), m, log),
		Admin:     handler.NewAdminHandler(services.NewAccountService(repo), services.NewAssignmentService(repo, repo), log),
		Professor: handler.NewProfessorHandler(services.NewProfessorService(repo), log),
		Student:   handler.NewStudentHandler(services.NewStudentService(repo, repo, repo, repo), log),
		Health: handler.NewHealthHandler(cfg.AppVersion, map[string]handler.DependencyCheck{
			"database": handler.PingDatabase(db),
			"redis":    handler.PingRedis(redisClient),
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, log),
		Metrics:        m,
		MetricsHandler: metrics.Handler(registry),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errChan:
		log.WithError(err).Error("server error, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("shutdown complete")
}

// newIDTokenVerifier builds the configured identity token verifier. When OIDC
// discovery fails the service still starts and identity login reports the
// verifier as unavailable.
func newIDTokenVerifier(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) ports.IDTokenVerifier {
	if len(cfg.GoogleClientIDs) == 0 {
		return nil
	}

	switch cfg.IdentityVerifier {
	case config.IdentityVerifierGoogleCerts:
		return identity.NewCertsVerifier()
	default:
		discoveryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		verifier, err := identity.NewOIDCVerifier(discoveryCtx, cfg.GoogleIssuerURL)
		if err != nil {
			log.WithError(err).Error("identity token verifier unavailable")
			return nil
		}
		return verifier
	}
}
