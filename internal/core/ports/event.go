package ports

import (
	"context"
)

const (
	EventAccountCreated   = "account.created"
	EventStudentsAssigned = "students.assigned"
)

type AccountCreatedEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Source string `json:"source"`
}

type StudentsAssignedEvent struct {
	ProfessorID string   `json:"professor_id"`
	StudentIDs  []string `json:"student_ids"`
}

// OutboxEvent is a stored event waiting to be relayed.
type OutboxEvent struct {
	ID        string
	EventType string
	Payload   []byte
}

type EventPublisher interface {
	Publish(ctx context.Context, evt OutboxEvent) error
}
