package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/repository"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/config"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/services"
)

func main() {
	cfg := config.LoadSeedConfig()
	log := config.NewLogger(cfg.LogLevel, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("failed to apply database schema")
	}

	s := seeder{
		users:       repo,
		accounts:    services.NewAccountService(repo),
		assignments: services.NewAssignmentService(repo, repo),
		log:         log,
	}
	if err := s.run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	log.Info("seed complete")
}

type seeder struct {
	users       ports.UserRepository
	accounts    ports.AccountService
	assignments ports.AssignmentService
	log         logrus.FieldLogger
}

// run creates the demo admin, professor and student, then assigns the student
// to the professor. Accounts that already exist are reused, so running it
// again changes nothing.
func (s seeder) run(ctx context.Context, cfg *config.SeedConfig) error {
	if _, err := s.ensure(ctx, cfg.Admin, domain.RoleAdmin); err != nil {
		return err
	}
	professor, err := s.ensure(ctx, cfg.Professor, domain.RoleProfessor)
	if err != nil {
		return err
	}
	student, err := s.ensure(ctx, cfg.Student, domain.RoleStudent)
	if err != nil {
		return err
	}

	if _, err := s.assignments.AssignStudents(ctx, professor.ID, []string{student.ID}); err != nil {
		return fmt.Errorf("assign student: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"professor": professor.Username,
		"student":   student.Username,
	}).Info("student assigned")
	return nil
}

func (s seeder) ensure(ctx context.Context, acc config.SeedAccount, role domain.Role) (*domain.User, error) {
	entry := s.log.WithFields(logrus.Fields{"email": acc.Email, "role": role})

	created, err := s.accounts.CreateUser(ctx, acc.Email, acc.Password, acc.FirstName, acc.LastName, role)
	if err == nil {
		entry.Info("account created")
		return &created.User, nil
	}
	if !errors.Is(err, domain.ErrEmailTaken) {
		return nil, fmt.Errorf("create %s: %w", acc.Email, err)
	}

	existing, err := s.users.FindByUsername(ctx, domain.NormalizeEmail(acc.Email))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", acc.Email, err)
	}
	if existing.Role != role {
		return nil, fmt.Errorf("account %s already exists with role %s", acc.Email, existing.Role)
	}
	entry.Info("account already exists")
	return existing, nil
}
