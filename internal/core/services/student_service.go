package services

import (
	"context"
	"errors"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

type StudentService struct {
	userRepo     ports.UserRepository
	profileRepo  ports.ProfileRepository
	materialRepo ports.MaterialRepository
	lessonRepo   ports.LessonRepository
	now          func() time.Time
}

var _ ports.StudentService = (*StudentService)(nil)

func NewStudentService(
	userRepo ports.UserRepository,
	profileRepo ports.ProfileRepository,
	materialRepo ports.MaterialRepository,
	lessonRepo ports.LessonRepository,
) *StudentService {
	return &StudentService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		materialRepo: materialRepo,
		lessonRepo:   lessonRepo,
		now:          time.Now,
	}
}

func (s *StudentService) ListMaterials(ctx context.Context, studentID string) ([]domain.Material, error) {
	materials, err := s.materialRepo.ListMaterials(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if materials == nil {
		materials = []domain.Material{}
	}
	return materials, nil
}

// CompleteMaterial marks one of the student's own materials as completed.
// Materials owned by someone else are reported as not found.
func (s *StudentService) CompleteMaterial(ctx context.Context, studentID, materialID string) (*domain.Material, error) {
	materialID, ok := canonicalID(materialID)
	if !ok {
		return nil, domain.ErrMaterialNotFound
	}
	material, err := s.materialRepo.FindMaterial(ctx, materialID, studentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrMaterialNotFound
	}
	if err != nil {
		return nil, err
	}

	if material.Complete() {
		if err := s.materialRepo.UpdateMaterialStatus(ctx, material.ID, material.Status); err != nil {
			return nil, err
		}
	}
	return material, nil
}

func (s *StudentService) ListLessons(ctx context.Context, studentID string) ([]domain.Lesson, error) {
	lessons, err := s.lessonRepo.ListLessons(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	return lessons, nil
}

// Overview builds the student's own profile view, creating the profile on
// first access.
func (s *StudentService) Overview(ctx context.Context, studentID string) (*domain.StudentOverview, error) {
	student, err := s.userRepo.FindByID(ctx, studentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	profile, err := FindOrInitializeProfile(ctx, s.profileRepo, studentID)
	if err != nil {
		return nil, err
	}

	last, err := s.lessonRepo.LastCompletedLesson(ctx, studentID)
	if err != nil {
		return nil, err
	}
	next, err := s.lessonRepo.NextScheduledLesson(ctx, studentID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	professorName := ""
	if profile.ProfessorID != nil {
		professor, err := s.userRepo.FindByID(ctx, *profile.ProfessorID)
		switch {
		case err == nil:
			professorName = professor.DisplayName()
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	return &domain.StudentOverview{
		Student:       *student,
		Progress:      profile.Progress,
		LastLesson:    last,
		NextLesson:    next,
		ProfessorName: professorName,
	}, nil
}
