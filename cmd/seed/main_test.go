package main

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/config"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/services"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/mocks"
)

func testSeedConfig() *config.SeedConfig {
	return &config.SeedConfig{
		Admin:     config.SeedAccount{Email: "Admin@Academy.local", Password: "admin-password"},
		Professor: config.SeedAccount{Email: "prof@academy.local", Password: "prof-password", FirstName: "Clara", LastName: "Schumann"},
		Student:   config.SeedAccount{Email: "student@academy.local", Password: "student-password"},
	}
}

func newTestSeeder() (seeder, *mocks.MockUserRepository, *mocks.MockProfileRepository) {
	users := mocks.NewMockUserRepository()
	profiles := mocks.NewMockProfileRepository()
	log, _ := logtest.NewNullLogger()
	return seeder{
		users:       users,
		accounts:    services.NewAccountService(users),
		assignments: services.NewAssignmentService(users, profiles),
		log:         log,
	}, users, profiles
}

func TestSeeder_Run(t *testing.T) {
	s, users, profiles := newTestSeeder()
	ctx := context.Background()

	require.NoError(t, s.run(ctx, testSeedConfig()))
	require.Equal(t, 3, users.Count())

	professor, err := users.FindByUsername(ctx, "prof@academy.local")
	require.NoError(t, err)
	student, err := users.FindByUsername(ctx, "student@academy.local")
	require.NoError(t, err)
	profile, ok := profiles.Profile(student.ID)
	require.True(t, ok)
	require.NotNil(t, profile.ProfessorID)
	assert.Equal(t, professor.ID, *profile.ProfessorID)

	// a second run reuses every account
	require.NoError(t, s.run(ctx, testSeedConfig()))
	assert.Equal(t, 3, users.Count())
	assert.Equal(t, 1, profiles.Count())
}

func TestSeeder_RoleConflict(t *testing.T) {
	s, users, _ := newTestSeeder()
	users.SeedUser(mocks.NewTestUser("prof@academy.local", domain.RoleStudent))

	err := s.run(context.Background(), testSeedConfig())

	assert.ErrorContains(t, err, "already exists with role STUDENT")
}
