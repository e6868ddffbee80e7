package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

func (r *SQLRepository) ListLessons(ctx context.Context, studentID string) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, professor_id, start_at, end_at, status, created_at
		 FROM lessons
		 WHERE student_id = $1
		 ORDER BY start_at DESC, id`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.StudentID, &l.ProfessorID, &l.Start, &l.End, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *SQLRepository) LastCompletedLesson(ctx context.Context, studentID string) (*time.Time, error) {
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(end_at) FROM lessons WHERE student_id = $1 AND status = $2",
		studentID,
		domain.LessonCompleted,
	).Scan(&last)
	if err != nil {
		return nil, err
	}
	return nullTimePtr(last), nil
}

func (r *SQLRepository) NextScheduledLesson(ctx context.Context, studentID string, now time.Time) (*time.Time, error) {
	var next sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT MIN(start_at) FROM lessons WHERE student_id = $1 AND status = $2 AND start_at >= $3",
		studentID,
		domain.LessonScheduled,
		now,
	).Scan(&next)
	if err != nil {
		return nil, err
	}
	return nullTimePtr(next), nil
}
