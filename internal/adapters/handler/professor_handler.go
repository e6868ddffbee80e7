package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/middleware"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

type ProfessorHandler struct {
	professors ports.ProfessorService
	log        logrus.FieldLogger
}

func NewProfessorHandler(professors ports.ProfessorService, log logrus.FieldLogger) *ProfessorHandler {
	return &ProfessorHandler{professors: professors, log: log}
}

type AssignedStudentView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Progress   int        `json:"progress"`
	LastLesson *time.Time `json:"last_lesson"`
	NextLesson *time.Time `json:"next_lesson"`
}

func (h *ProfessorHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	students, err := h.professors.ListStudents(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	views := make([]AssignedStudentView, 0, len(students))
	for _, s := range students {
		views = append(views, AssignedStudentView{
			ID:         s.Student.ID,
			Name:       s.Student.DisplayName(),
			Email:      s.Student.Email,
			Progress:   s.Progress,
			LastLesson: s.LastLesson,
			NextLesson: s.NextLesson,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
