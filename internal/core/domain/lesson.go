package domain

import "time"

type LessonStatus string

const (
	LessonScheduled LessonStatus = "SCHEDULED"
	LessonCompleted LessonStatus = "COMPLETED"
	LessonCancelled LessonStatus = "CANCELLED"
)

type Lesson struct {
	ID          string       `json:"id"`
	StudentID   string       `json:"-"`
	ProfessorID string       `json:"professor_id"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	Status      LessonStatus `json:"status"`
	CreatedAt   time.Time    `json:"-"`
}
