// Package mocks provides in-memory implementations of the port interfaces so
// services, handlers and the relay can be tested without PostgreSQL, Redis,
// RabbitMQ or Google.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository for testing.
type MockUserRepository struct {
	mu sync.RWMutex

	users map[string]domain.User

	// Call tracking for verification
	FindByIDCalls       []string
	FindByUsernameCalls []string
	CreateUserCalls     []domain.User
	CreatedPayloads     [][]byte
	UpdateEmailCalls    []string
	ListUsersCalls      []domain.UserFilter

	// Error injection for testing error scenarios
	FindByIDError       error
	FindByUsernameError error
	ExistsError         error
	FindByIDsError      error
	CreateUserError     error
	UpdateEmailError    error
	ListUsersError      error

	// CreateUserHook runs before a user is stored. A non-nil error aborts the
	// insert, which lets tests simulate a concurrent writer.
	CreateUserHook func(user domain.User) error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]domain.User),
	}
}

// SeedUser adds a user to the mock repository for test setup.
func (m *MockUserRepository) SeedUser(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// User returns the stored copy of a user.
func (m *MockUserRepository) User(id string) (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *MockUserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByIDCalls = append(m.FindByIDCalls, id)
	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByUsernameCalls = append(m.FindByUsernameCalls, username)
	if m.FindByUsernameError != nil {
		return nil, m.FindByUsernameError
	}

	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	for _, user := range m.users {
		if user.Username == username || (user.Email != "" && user.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindByIDsError != nil {
		return nil, m.FindByIDsError
	}
	var users []domain.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User, outboxPayload []byte) error {
	m.mu.Lock()
	m.CreateUserCalls = append(m.CreateUserCalls, user)
	hook := m.CreateUserHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(user); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return domain.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	m.CreatedPayloads = append(m.CreatedPayloads, outboxPayload)
	return nil
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateEmailCalls = append(m.UpdateEmailCalls, id)
	if m.UpdateEmailError != nil {
		return m.UpdateEmailError
	}
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Email = email
	m.users[id] = user
	return nil
}

// ListUsers filters in memory the way the SQL store does. ProfessorID is left
// empty.
func (m *MockUserRepository) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.UserSummary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListUsersCalls = append(m.ListUsersCalls, filter)
	if m.ListUsersError != nil {
		return nil, 0, m.ListUsersError
	}

	search := strings.ToLower(filter.Search)
	var matched []domain.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status == domain.UserStatusActive && !u.Active {
			continue
		}
		if filter.Status == domain.UserStatusInactive && u.Active {
			continue
		}
		if search != "" && !containsAny(search, u.Email, u.Username, u.FirstName, u.LastName) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	results := make([]domain.UserSummary, 0, end-start)
	for _, u := range matched[start:end] {
		results = append(results, domain.UserSummary{User: u})
	}
	return results, total, nil
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
