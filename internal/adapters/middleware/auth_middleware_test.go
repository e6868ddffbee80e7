package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/middleware"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/mocks"
)

func newParser() *mocks.MockTokenParser {
	p := mocks.NewMockTokenParser()
	p.Tokens["admin-token"] = domain.Principal{UserID: "a1", Role: domain.RoleAdmin}
	p.Tokens["professor-token"] = domain.Principal{UserID: "p1", Role: domain.RoleProfessor}
	p.Tokens["student-token"] = domain.Principal{UserID: "s1", Role: domain.RoleStudent}
	p.Tokens["roleless-token"] = domain.Principal{UserID: "x1"}
	p.Tokens["bogus-role-token"] = domain.Principal{UserID: "x2", Role: "ROOT"}
	return p
}

func echoPrincipal(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"user_id": p.UserID, "role": string(p.Role)})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		required   domain.Role
		wantStatus int
		wantError  string
	}{
		{"missing_header", "", domain.RoleStudent, http.StatusUnauthorized, "authentication credentials were not provided"},
		{"not_bearer", "Basic abc", domain.RoleStudent, http.StatusUnauthorized, "invalid authorization header"},
		{"bearer_without_token", "Bearer", domain.RoleStudent, http.StatusUnauthorized, "invalid authorization header"},
		{"unknown_token", "Bearer forged", domain.RoleStudent, http.StatusUnauthorized, "invalid or expired token"},
		{"student_on_student_route", "Bearer student-token", domain.RoleStudent, http.StatusOK, ""},
		{"lowercase_scheme", "bearer student-token", domain.RoleStudent, http.StatusOK, ""},
		{"professor_on_professor_route", "Bearer professor-token", domain.RoleProfessor, http.StatusOK, ""},
		{"admin_on_admin_route", "Bearer admin-token", domain.RoleAdmin, http.StatusOK, ""},
		{"admin_on_student_route", "Bearer admin-token", domain.RoleStudent, http.StatusForbidden, "you do not have permission to perform this action"},
		{"admin_on_professor_route", "Bearer admin-token", domain.RoleProfessor, http.StatusForbidden, "you do not have permission to perform this action"},
		{"student_on_admin_route", "Bearer student-token", domain.RoleAdmin, http.StatusForbidden, "you do not have permission to perform this action"},
		{"roleless_principal", "Bearer roleless-token", domain.RoleStudent, http.StatusForbidden, "you do not have permission to perform this action"},
		{"unknown_role", "Bearer bogus-role-token", domain.RoleAdmin, http.StatusForbidden, "you do not have permission to perform this action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := middleware.NewAuthMiddleware(newParser(), nil)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.RequireRole(tt.required, echoPrincipal)(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequireRole_PassesPrincipal(t *testing.T) {
	mw := middleware.NewAuthMiddleware(newParser(), nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer professor-token")
	rec := httptest.NewRecorder()

	mw.RequireRole(domain.RoleProfessor, echoPrincipal)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "p1", body["user_id"])
	assert.Equal(t, "PROFESSOR", body["role"])
}

func TestAuthenticated(t *testing.T) {
	mw := middleware.NewAuthMiddleware(newParser(), nil)

	for _, token := range []string{"admin-token", "professor-token", "student-token", "roleless-token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Authenticated(echoPrincipal)(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, token)
	}

	rec := httptest.NewRecorder()
	mw.Authenticated(echoPrincipal)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
