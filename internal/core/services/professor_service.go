package services

import (
	"context"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

type ProfessorService struct {
	profileRepo ports.ProfileRepository
	now         func() time.Time
}

var _ ports.ProfessorService = (*ProfessorService)(nil)

func NewProfessorService(profileRepo ports.ProfileRepository) *ProfessorService {
	return &ProfessorService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// ListStudents returns the professor's students with their last completed and
// next scheduled lesson with that professor.
func (s *ProfessorService) ListStudents(ctx context.Context, professorID string) ([]domain.AssignedStudent, error) {
	students, err := s.profileRepo.ListAssignedStudents(ctx, professorID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []domain.AssignedStudent{}
	}
	return students, nil
}
