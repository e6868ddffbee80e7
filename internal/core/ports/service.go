package ports

import (
	"context"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LoginWithIdentityToken(ctx context.Context, rawToken string) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type AccountService interface {
	ListUsers(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	CreateUser(ctx context.Context, email, password, firstName, lastName string, role domain.Role) (*domain.UserSummary, error)
}

type AssignmentService interface {
	AssignStudents(ctx context.Context, professorID string, studentIDs []string) (int, error)
}

type ProfessorService interface {
	ListStudents(ctx context.Context, professorID string) ([]domain.AssignedStudent, error)
}

type StudentService interface {
	ListMaterials(ctx context.Context, studentID string) ([]domain.Material, error)
	CompleteMaterial(ctx context.Context, studentID, materialID string) (*domain.Material, error)
	ListLessons(ctx context.Context, studentID string) ([]domain.Lesson, error)
	Overview(ctx context.Context, studentID string) (*domain.StudentOverview, error)
}

// AccessTokenParser turns a bearer access credential into the caller identity.
type AccessTokenParser interface {
	ParseAccess(token string) (*domain.Principal, error)
}
