package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/metrics"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/middleware"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

// Router groups everything NewRouter mounts.
type Router struct {
	Auth           *AuthHandler
	Admin          *AdminHandler
	Professor      *ProfessorHandler
	Student        *StudentHandler
	Health         *HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	AllowedOrigins []string
	Log            logrus.FieldLogger
}

func NewRouter(cfg Router) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	cfg.Health.Mount(r)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	mw := cfg.AuthMiddleware
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)
			r.Post("/google", cfg.Auth.GoogleLogin)
			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/me", mw.Authenticated(cfg.Auth.Me))
		})

		r.Get("/users", mw.RequireRole(domain.RoleAdmin, cfg.Admin.ListUsers))
		r.Post("/users", mw.RequireRole(domain.RoleAdmin, cfg.Admin.CreateUser))
		r.Post("/users/assign", mw.RequireRole(domain.RoleAdmin, cfg.Admin.AssignStudents))

		r.Get("/professor/students", mw.RequireRole(domain.RoleProfessor, cfg.Professor.ListStudents))

		r.Get("/student/repository", mw.RequireRole(domain.RoleStudent, cfg.Student.Repository))
		r.Get("/student/lessons", mw.RequireRole(domain.RoleStudent, cfg.Student.Lessons))
		r.Get("/student/profile", mw.RequireRole(domain.RoleStudent, cfg.Student.Profile))
		r.Put("/materials/{materialID}/complete", mw.RequireRole(domain.RoleStudent, cfg.Student.CompleteMaterial))
	})

	return r
}
