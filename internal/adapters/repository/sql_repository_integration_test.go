//go:build integration

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// setupPostgres starts a throwaway PostgreSQL container with the schema
// applied. Tests are skipped when no container runtime is available.
func setupPostgres(t *testing.T) (*SQLRepository, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("container runtime not available")
	}
	provider.Close()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("academy_test"),
		postgres.WithUsername("academy"),
		postgres.WithPassword("academy"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Errorf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.PingContext(ctx))

	repo := NewSQLRepository(db)
	require.NoError(t, repo.Migrate(ctx))
	// a second run must be harmless
	require.NoError(t, repo.Migrate(ctx))
	return repo, db
}

func createTestUser(t *testing.T, repo *SQLRepository, email string, role domain.Role) domain.User {
	t.Helper()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     email,
		Email:        email,
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
		PasswordHash: domain.UnusablePassword(),
		Active:       true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	payload, err := json.Marshal(ports.AccountCreatedEvent{UserID: user.ID, Email: email, Role: string(role)})
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(context.Background(), user, payload))
	return user
}

func TestIntegration_AccountsAndAssignment(t *testing.T) {
	repo, db := setupPostgres(t)
	ctx := context.Background()

	professor := createTestUser(t, repo, "prof@example.com", domain.RoleProfessor)
	ada := createTestUser(t, repo, "ada@example.com", domain.RoleStudent)
	blaise := createTestUser(t, repo, "blaise@example.com", domain.RoleStudent)

	t.Run("duplicate_username", func(t *testing.T) {
		dup := ada
		dup.ID = uuid.NewString()
		err := repo.CreateUser(ctx, dup, []byte(`{}`))
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("outbox_rows_written_with_accounts", func(t *testing.T) {
		var n int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM outbox_events WHERE event_type = $1", ports.EventAccountCreated).Scan(&n))
		assert.Equal(t, 3, n)
	})

	t.Run("profile_creation_is_idempotent", func(t *testing.T) {
		first, err := repo.CreateProfile(ctx, domain.NewStudentProfile(ada.ID))
		require.NoError(t, err)
		second, err := repo.CreateProfile(ctx, domain.NewStudentProfile(ada.ID))
		require.NoError(t, err)
		assert.Equal(t, first, second)
		_, err = repo.CreateProfile(ctx, domain.NewStudentProfile(blaise.ID))
		require.NoError(t, err)
	})

	t.Run("assign_and_list", func(t *testing.T) {
		n, err := repo.AssignProfessor(ctx, professor.ID, []string{ada.ID, blaise.ID}, []byte(`{"professor_id":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		now := time.Now().UTC().Truncate(time.Second)
		_, err = db.ExecContext(ctx,
			`INSERT INTO lessons (id, student_id, professor_id, start_at, end_at, status) VALUES
			 ($1, $3, $4, $5, $6, 'COMPLETED'),
			 ($2, $3, $4, $7, $8, 'SCHEDULED')`,
			uuid.NewString(), uuid.NewString(), ada.ID, professor.ID,
			now.Add(-2*time.Hour), now.Add(-time.Hour),
			now.Add(24*time.Hour), now.Add(25*time.Hour),
		)
		require.NoError(t, err)

		students, err := repo.ListAssignedStudents(ctx, professor.ID, now)
		require.NoError(t, err)
		require.Len(t, students, 2)
		byID := map[string]domain.AssignedStudent{}
		for _, s := range students {
			byID[s.Student.ID] = s
		}
		require.NotNil(t, byID[ada.ID].LastLesson)
		assert.True(t, now.Add(-time.Hour).Equal(*byID[ada.ID].LastLesson))
		require.NotNil(t, byID[ada.ID].NextLesson)
		assert.True(t, now.Add(24*time.Hour).Equal(*byID[ada.ID].NextLesson))
		assert.Nil(t, byID[blaise.ID].LastLesson)

		last, err := repo.LastCompletedLesson(ctx, ada.ID)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.True(t, now.Add(-time.Hour).Equal(*last))
	})

	t.Run("list_users_joins_professor", func(t *testing.T) {
		results, total, err := repo.ListUsers(ctx, domain.UserFilter{Role: domain.RoleStudent, Search: "ADA", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].ProfessorID)
		assert.Equal(t, professor.ID, *results[0].ProfessorID)
	})
}
