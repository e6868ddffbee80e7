package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

type AssignmentService struct {
	userRepo    ports.UserRepository
	profileRepo ports.ProfileRepository
}

var _ ports.AssignmentService = (*AssignmentService)(nil)

func NewAssignmentService(userRepo ports.UserRepository, profileRepo ports.ProfileRepository) *AssignmentService {
	return &AssignmentService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// AssignStudents makes professorID the professor of every listed student.
// Nothing is modified unless the professor and every student resolve to
// users with the matching role.
func (s *AssignmentService) AssignStudents(ctx context.Context, professorID string, studentIDs []string) (int, error) {
	if len(studentIDs) == 0 {
		return 0, domain.ErrNoStudents
	}

	professorID, ok := canonicalID(professorID)
	if !ok {
		return 0, domain.ErrInvalidProfessor
	}
	professor, err := s.userRepo.FindByID(ctx, professorID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrInvalidProfessor
	}
	if err != nil {
		return 0, err
	}
	if professor.Role != domain.RoleProfessor {
		return 0, domain.ErrInvalidProfessor
	}

	canonical := make([]string, 0, len(studentIDs))
	for _, raw := range studentIDs {
		id, ok := canonicalID(raw)
		if !ok {
			return 0, domain.ErrInvalidStudentSet
		}
		canonical = append(canonical, id)
	}
	ids := uniqueIDs(canonical)
	students, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	found := 0
	for _, student := range students {
		if student.Role == domain.RoleStudent {
			found++
		}
	}
	if found != len(ids) {
		return 0, domain.ErrInvalidStudentSet
	}

	for _, id := range ids {
		if _, err := FindOrInitializeProfile(ctx, s.profileRepo, id); err != nil {
			return 0, err
		}
	}

	payload, err := json.Marshal(ports.StudentsAssignedEvent{
		ProfessorID: professor.ID,
		StudentIDs:  ids,
	})
	if err != nil {
		return 0, err
	}
	return s.profileRepo.AssignProfessor(ctx, professor.ID, ids, payload)
}
