package domain

import "time"

// MaxProgress bounds StudentProfile.Progress (a small unsigned counter).
const MaxProgress = 32767

type StudentProfile struct {
	UserID      string
	Progress    int
	ProfessorID *string
}

// NewStudentProfile builds the default profile for a student: no progress and
// no assigned professor.
func NewStudentProfile(userID string) StudentProfile {
	return StudentProfile{
		UserID:      userID,
		Progress:    0,
		ProfessorID: nil,
	}
}

// AssignedStudent is a student as seen by the professor it is assigned to.
type AssignedStudent struct {
	Student    User
	Progress   int
	LastLesson *time.Time
	NextLesson *time.Time
}

// StudentOverview is a student's own profile view.
type StudentOverview struct {
	Student       User
	Progress      int
	LastLesson    *time.Time
	NextLesson    *time.Time
	ProfessorName string
}
