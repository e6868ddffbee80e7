package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/handler"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/mocks"
)

func TestAdminHandler_ListUsers(t *testing.T) {
	s := newTestServer(t)
	base := time.Now().Add(time.Hour)
	for i := 0; i < 7; i++ {
		u := mocks.NewTestUser(fmt.Sprintf("pupil%d@example.com", i), domain.RoleStudent)
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		s.users.SeedUser(u)
	}
	admin := s.tokenFor(s.admin)

	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantCount    int
		wantPage     int
		wantPageSize int
		wantResults  int
		wantError    string
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantCount: 10, wantPage: 1, wantPageSize: 10, wantResults: 10},
		{name: "second_page", query: "?page=2&page_size=4", wantStatus: http.StatusOK, wantCount: 10, wantPage: 2, wantPageSize: 4, wantResults: 4},
		{name: "page_size_clamped", query: "?page_size=80", wantStatus: http.StatusOK, wantCount: 10, wantPage: 1, wantPageSize: 50, wantResults: 10},
		{name: "page_clamped", query: "?page=0", wantStatus: http.StatusOK, wantCount: 10, wantPage: 1, wantPageSize: 10, wantResults: 10},
		{name: "role_filter", query: "?role=PROFESSOR", wantStatus: http.StatusOK, wantCount: 1, wantPage: 1, wantPageSize: 10, wantResults: 1},
		{name: "search", query: "?search=PUPIL3", wantStatus: http.StatusOK, wantCount: 1, wantPage: 1, wantPageSize: 10, wantResults: 1},
		{name: "status_inactive", query: "?status=inactive", wantStatus: http.StatusOK, wantCount: 0, wantPage: 1, wantPageSize: 10, wantResults: 0},
		{name: "non_numeric_page", query: "?page=two", wantStatus: http.StatusBadRequest, wantError: "page: must be an integer"},
		{name: "non_numeric_page_size", query: "?page_size=lots", wantStatus: http.StatusBadRequest, wantError: "page_size: must be an integer"},
		{name: "unknown_role", query: "?role=TEACHER", wantStatus: http.StatusBadRequest, wantError: "role: select a valid choice"},
		{name: "unknown_status", query: "?status=banned", wantStatus: http.StatusBadRequest, wantError: "status: select a valid choice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/api/users"+tt.query, admin, nil)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorReason(t, rec))
				return
			}
			page := decode[handler.UserPageResponse](t, rec)
			assert.Equal(t, tt.wantCount, page.Count)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPageSize, page.PageSize)
			assert.Len(t, page.Results, tt.wantResults)
			for i := 1; i < len(page.Results); i++ {
				assert.False(t, page.Results[i].CreatedAt.After(page.Results[i-1].CreatedAt), "newest first")
			}
		})
	}
}

func TestAdminHandler_CreateUser(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantError  string
	}{
		{
			name:       "professor",
			body:       map[string]string{"email": "new.prof@example.com", "password": "long-enough", "first_name": "Nadia", "last_name": "Boulanger", "role": "PROFESSOR"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid_role",
			body:       map[string]string{"email": "x@example.com", "password": "long-enough", "role": "TEACHER"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid role",
		},
		{
			name:       "missing_role",
			body:       map[string]string{"email": "x@example.com", "password": "long-enough"},
			wantStatus: http.StatusBadRequest,
			wantError:  "role: this field is required",
		},
		{
			name:       "missing_password",
			body:       map[string]string{"email": "x@example.com", "role": "PROFESSOR"},
			wantStatus: http.StatusBadRequest,
			wantError:  "password: this field is required",
		},
		{
			name:       "short_password",
			body:       map[string]string{"email": "x@example.com", "password": "short", "role": "ADMIN"},
			wantStatus: http.StatusBadRequest,
			wantError:  "password: must be at least 8 characters",
		},
		{
			name:       "duplicate",
			body:       map[string]string{"email": "prof@example.com", "password": "long-enough", "role": "PROFESSOR"},
			wantStatus: http.StatusBadRequest,
			wantError:  "email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(http.MethodPost, "/api/users", s.tokenFor(s.admin), tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorReason(t, rec))
				return
			}
			view := decode[handler.AdminUserView](t, rec)
			assert.Equal(t, domain.RoleProfessor, view.Role)
			assert.Equal(t, "Nadia Boulanger", view.Name)
			assert.Equal(t, domain.UserStatusActive, view.Status)
			assert.True(t, view.IsActive)
			assert.Nil(t, view.ProfessorID)
			assert.Equal(t, 4, s.users.Count())
		})
	}
}

func TestAdminHandler_AssignStudents(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(s.admin)
	second := mocks.NewTestUser("second@example.com", domain.RoleStudent)
	s.users.SeedUser(second)

	rec := s.do(http.MethodPost, "/api/users/assign", admin, map[string]any{
		"professor_id": s.professor.ID,
		"student_ids":  []string{s.student.ID, second.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[handler.AssignStudentsResponse](t, rec).Assigned)

	p, ok := s.profiles.Profile(second.ID)
	require.True(t, ok)
	assert.Equal(t, s.professor.ID, *p.ProfessorID)

	rec = s.do(http.MethodPost, "/api/users/assign", admin, map[string]any{
		"professor_id": s.professor.ID,
		"student_ids":  []string{s.student.ID, uuid.NewString()},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid student set", errorReason(t, rec))

	rec = s.do(http.MethodPost, "/api/users/assign", admin, map[string]any{
		"professor_id": s.admin.ID,
		"student_ids":  []string{s.student.ID},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid professor", errorReason(t, rec))

	rec = s.do(http.MethodPost, "/api/users/assign", admin, map[string]any{
		"professor_id": s.professor.ID,
		"student_ids":  []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "student_ids must not be empty", errorReason(t, rec))

	assert.Len(t, s.profiles.AssignCalls, 1)
}
