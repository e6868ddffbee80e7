package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/services"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/mocks"
)

func TestProfessorService_ListStudents(t *testing.T) {
	profiles := mocks.NewMockProfileRepository()
	professor := mocks.NewTestUser("prof@example.com", domain.RoleProfessor)
	student := mocks.NewTestUser("s@example.com", domain.RoleStudent)
	profiles.Assigned[professor.ID] = []domain.AssignedStudent{
		{Student: student, Progress: 3, NextLesson: mocks.TimePtr(time.Now().Add(time.Hour))},
	}
	svc := services.NewProfessorService(profiles)

	got, err := svc.ListStudents(context.Background(), professor.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, student.ID, got[0].Student.ID)
	assert.Nil(t, got[0].LastLesson)

	require.Len(t, profiles.ListCalls, 1)
	assert.Equal(t, time.UTC, profiles.ListCalls[0].Location())
}

func TestProfessorService_ListStudentsEmpty(t *testing.T) {
	profiles := mocks.NewMockProfileRepository()
	svc := services.NewProfessorService(profiles)

	got, err := svc.ListStudents(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	profiles.ListError = errors.New("db down")
	_, err = svc.ListStudents(context.Background(), "nobody")
	assert.Error(t, err)
}
