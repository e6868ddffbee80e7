package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/middleware"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// StudentHandler serves a student's own materials, lessons and profile.
type StudentHandler struct {
	students ports.StudentService
	log      logrus.FieldLogger
}

func NewStudentHandler(students ports.StudentService, log logrus.FieldLogger) *StudentHandler {
	return &StudentHandler{students: students, log: log}
}

type StudentProfileView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Progress   int         `json:"progress"`
	LastLesson *time.Time  `json:"last_lesson"`
	NextLesson *time.Time  `json:"next_lesson"`
	Professor  string      `json:"professor"`
}

func (h *StudentHandler) Repository(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	materials, err := h.students.ListMaterials(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (h *StudentHandler) Lessons(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	lessons, err := h.students.ListLessons(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (h *StudentHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	o, err := h.students.Overview(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, StudentProfileView{
		ID:         o.Student.ID,
		Name:       o.Student.DisplayName(),
		Email:      o.Student.Email,
		Role:       o.Student.Role,
		Progress:   o.Progress,
		LastLesson: o.LastLesson,
		NextLesson: o.NextLesson,
		Professor:  o.ProfessorName,
	})
}

func (h *StudentHandler) CompleteMaterial(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	material, err := h.students.CompleteMaterial(r.Context(), principal.UserID, chi.URLParam(r, "materialID"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, material)
}
