package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

// UserRepository stores user accounts. Lookups return domain.ErrNotFound when
// nothing matches. CreateUser stores the account together with an
// account.created outbox event and returns domain.ErrEmailTaken when the login
// key is already in use.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	CreateUser(ctx context.Context, user domain.User, outboxPayload []byte) error
	UpdateEmail(ctx context.Context, id, email string) error
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.UserSummary, int, error)
}

// ProfileRepository stores student profiles. One profile per student is
// enforced by the store.
type ProfileRepository interface {
	FindProfile(ctx context.Context, userID string) (*domain.StudentProfile, error)
	// CreateProfile inserts the profile unless one already exists for the
	// user, and returns whichever profile is stored afterwards.
	CreateProfile(ctx context.Context, profile domain.StudentProfile) (*domain.StudentProfile, error)
	// AssignProfessor sets only the professor reference of the given
	// students' profiles, records a students.assigned outbox event in the same
	// transaction and returns how many profiles were updated.
	AssignProfessor(ctx context.Context, professorID string, studentIDs []string, outboxPayload []byte) (int, error)
	ListAssignedStudents(ctx context.Context, professorID string, now time.Time) ([]domain.AssignedStudent, error)
}

type MaterialRepository interface {
	// ListMaterials returns the student's materials, newest first.
	ListMaterials(ctx context.Context, studentID string) ([]domain.Material, error)
	// FindMaterial returns the material only when it belongs to studentID.
	FindMaterial(ctx context.Context, materialID, studentID string) (*domain.Material, error)
	UpdateMaterialStatus(ctx context.Context, materialID string, status domain.MaterialStatus) error
}

type LessonRepository interface {
	// ListLessons returns the student's lessons, latest start first.
	ListLessons(ctx context.Context, studentID string) ([]domain.Lesson, error)
	// LastCompletedLesson is the end of the student's latest completed lesson.
	LastCompletedLesson(ctx context.Context, studentID string) (*time.Time, error)
	// NextScheduledLesson is the start of the student's earliest scheduled
	// lesson starting at or after now.
	NextScheduledLesson(ctx context.Context, studentID string, now time.Time) (*time.Time, error)
}
