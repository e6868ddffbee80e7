package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// AssignCall records one AssignProfessor invocation.
type AssignCall struct {
	ProfessorID   string
	StudentIDs    []string
	OutboxPayload []byte
}

// MockProfileRepository implements ports.ProfileRepository for testing. Like
// the real store it keeps at most one profile per student.
type MockProfileRepository struct {
	mu sync.RWMutex

	profiles map[string]domain.StudentProfile

	// Assigned is returned by ListAssignedStudents, keyed by professor id.
	Assigned map[string][]domain.AssignedStudent

	// Call tracking for verification
	FindCalls   []string
	CreateCalls []domain.StudentProfile
	AssignCalls []AssignCall
	ListCalls   []time.Time

	// Error injection for testing error scenarios
	FindError   error
	CreateError error
	AssignError error
	ListError   error
}

var _ ports.ProfileRepository = (*MockProfileRepository)(nil)

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]domain.StudentProfile),
		Assigned: make(map[string][]domain.AssignedStudent),
	}
}

func (m *MockProfileRepository) SeedProfile(profile domain.StudentProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

// Profile returns the stored copy of a student's profile.
func (m *MockProfileRepository) Profile(userID string) (domain.StudentProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	return p, ok
}

func (m *MockProfileRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

func (m *MockProfileRepository) FindProfile(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindCalls = append(m.FindCalls, userID)
	if m.FindError != nil {
		return nil, m.FindError
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile domain.StudentProfile) (*domain.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, profile)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	if existing, ok := m.profiles[profile.UserID]; ok {
		return &existing, nil
	}
	m.profiles[profile.UserID] = profile
	return &profile, nil
}

func (m *MockProfileRepository) AssignProfessor(ctx context.Context, professorID string, studentIDs []string, outboxPayload []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AssignCalls = append(m.AssignCalls, AssignCall{
		ProfessorID:   professorID,
		StudentIDs:    append([]string(nil), studentIDs...),
		OutboxPayload: outboxPayload,
	})
	if m.AssignError != nil {
		return 0, m.AssignError
	}

	updated := 0
	for _, id := range studentIDs {
		p, ok := m.profiles[id]
		if !ok {
			continue
		}
		pid := professorID
		p.ProfessorID = &pid
		m.profiles[id] = p
		updated++
	}
	return updated, nil
}

func (m *MockProfileRepository) ListAssignedStudents(ctx context.Context, professorID string, now time.Time) ([]domain.AssignedStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls = append(m.ListCalls, now)
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Assigned[professorID], nil
}
