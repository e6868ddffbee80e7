package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// MockEventPublisher implements ports.EventPublisher for testing the outbox
// relay without a real RabbitMQ connection.
type MockEventPublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []ports.OutboxEvent

	// Error injection for testing error scenarios
	PublishError error
	// FailOn fails only the events with the given ids
	FailOn map[string]error

	// Track number of calls
	PublishCallCount int
}

var _ ports.EventPublisher = (*MockEventPublisher)(nil)

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		PublishedEvents: make([]ports.OutboxEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt ports.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}
	if err, ok := m.FailOn[evt.ID]; ok {
		return err
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of all events that were published.
func (m *MockEventPublisher) GetPublishedEvents() []ports.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.OutboxEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
