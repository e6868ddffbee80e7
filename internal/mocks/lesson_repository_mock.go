package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// MockLessonRepository implements ports.LessonRepository for testing.
type MockLessonRepository struct {
	mu sync.RWMutex

	lessons []domain.Lesson

	// Error injection for testing error scenarios
	ListError error
	LastError error
	NextError error
}

var _ ports.LessonRepository = (*MockLessonRepository)(nil)

func NewMockLessonRepository() *MockLessonRepository {
	return &MockLessonRepository{}
}

func (m *MockLessonRepository) SeedLesson(lesson domain.Lesson) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lessons = append(m.lessons, lesson)
}

func (m *MockLessonRepository) ListLessons(ctx context.Context, studentID string) ([]domain.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Lesson
	for _, l := range m.lessons {
		if l.StudentID == studentID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.After(out[j].Start)
	})
	return out, nil
}

func (m *MockLessonRepository) LastCompletedLesson(ctx context.Context, studentID string) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LastError != nil {
		return nil, m.LastError
	}
	var last *time.Time
	for _, l := range m.lessons {
		if l.StudentID != studentID || l.Status != domain.LessonCompleted {
			continue
		}
		if last == nil || l.End.After(*last) {
			end := l.End
			last = &end
		}
	}
	return last, nil
}

func (m *MockLessonRepository) NextScheduledLesson(ctx context.Context, studentID string, now time.Time) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.NextError != nil {
		return nil, m.NextError
	}
	var next *time.Time
	for _, l := range m.lessons {
		if l.StudentID != studentID || l.Status != domain.LessonScheduled || l.Start.Before(now) {
			continue
		}
		if next == nil || l.Start.Before(*next) {
			start := l.Start
			next = &start
		}
	}
	return next, nil
}
