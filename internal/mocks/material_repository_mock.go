package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// MockMaterialRepository implements ports.MaterialRepository for testing.
type MockMaterialRepository struct {
	mu sync.RWMutex

	materials map[string]domain.Material

	// Call tracking for verification
	UpdateStatusCalls []string

	// Error injection for testing error scenarios
	ListError   error
	FindError   error
	UpdateError error
}

var _ ports.MaterialRepository = (*MockMaterialRepository)(nil)

func NewMockMaterialRepository() *MockMaterialRepository {
	return &MockMaterialRepository{
		materials: make(map[string]domain.Material),
	}
}

func (m *MockMaterialRepository) SeedMaterial(material domain.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materials[material.ID] = material
}

func (m *MockMaterialRepository) Material(id string) (domain.Material, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mat, ok := m.materials[id]
	return mat, ok
}

func (m *MockMaterialRepository) ListMaterials(ctx context.Context, studentID string) ([]domain.Material, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Material
	for _, mat := range m.materials {
		if mat.StudentID == studentID {
			out = append(out, mat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (m *MockMaterialRepository) FindMaterial(ctx context.Context, materialID, studentID string) (*domain.Material, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}
	mat, ok := m.materials[materialID]
	if !ok || mat.StudentID != studentID {
		return nil, domain.ErrNotFound
	}
	return &mat, nil
}

func (m *MockMaterialRepository) UpdateMaterialStatus(ctx context.Context, materialID string, status domain.MaterialStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, materialID)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	mat, ok := m.materials[materialID]
	if !ok {
		return domain.ErrNotFound
	}
	mat.Status = status
	m.materials[materialID] = mat
	return nil
}
