package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// AdminHandler serves the administrator-only user management endpoints.
type AdminHandler struct {
	accounts    ports.AccountService
	assignments ports.AssignmentService
	log         logrus.FieldLogger
}

func NewAdminHandler(accounts ports.AccountService, assignments ports.AssignmentService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		accounts:    accounts,
		assignments: assignments,
		log:         log,
	}
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"required"`
}

type AssignStudentsRequest struct {
	ProfessorID string   `json:"professor_id" validate:"required"`
	StudentIDs  []string `json:"student_ids"`
}

type AssignStudentsResponse struct {
	Assigned int `json:"assigned"`
}

// AdminUserView is a user as listed to administrators.
type AdminUserView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Username    string            `json:"username"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Role        domain.Role       `json:"role"`
	Status      domain.UserStatus `json:"status"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	ProfessorID *string           `json:"professor_id"`
}

type UserPageResponse struct {
	Count    int             `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Results  []AdminUserView `json:"results"`
}

func newAdminUserView(s domain.UserSummary) AdminUserView {
	return AdminUserView{
		ID:          s.ID,
		Name:        s.DisplayName(),
		Email:       s.Email,
		Username:    s.Username,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Role:        s.Role,
		Status:      s.Status(),
		IsActive:    s.Active,
		CreatedAt:   s.CreatedAt,
		ProfessorID: s.ProfessorID,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseUserFilter(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	page, err := h.accounts.ListUsers(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	results := make([]AdminUserView, 0, len(page.Results))
	for _, s := range page.Results {
		results = append(results, newAdminUserView(s))
	}
	writeJSON(w, http.StatusOK, UserPageResponse{
		Count:    page.Count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  results,
	})
}

func parseUserFilter(r *http.Request) (domain.UserFilter, error) {
	q := r.URL.Query()
	filter := domain.UserFilter{Search: q.Get("search")}

	if v := q.Get("role"); v != "" {
		role, ok := domain.ParseRole(v)
		if !ok {
			return filter, domain.NewValidationError("role: select a valid choice")
		}
		filter.Role = role
	}
	if v := q.Get("status"); v != "" {
		status := domain.UserStatus(v)
		if status != domain.UserStatusActive && status != domain.UserStatusInactive {
			return filter, domain.NewValidationError("status: select a valid choice")
		}
		filter.Status = status
	}

	var err error
	if filter.Page, err = queryInt(q.Get("page")); err != nil {
		return filter, domain.NewValidationError("page: must be an integer").Wrap(err)
	}
	if filter.PageSize, err = queryInt(q.Get("page_size")); err != nil {
		return filter, domain.NewValidationError("page_size: must be an integer").Wrap(err)
	}
	return filter, nil
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), req.Email, req.Password, req.FirstName, req.LastName, domain.Role(req.Role))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user created by admin")
	writeJSON(w, http.StatusCreated, newAdminUserView(*user))
}

func (h *AdminHandler) AssignStudents(w http.ResponseWriter, r *http.Request) {
	var req AssignStudentsRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	n, err := h.assignments.AssignStudents(r.Context(), req.ProfessorID, req.StudentIDs)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"professor_id": req.ProfessorID,
		"assigned":     n,
	}).Info("students assigned")
	writeJSON(w, http.StatusOK, AssignStudentsResponse{Assigned: n})
}
