package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

func (r *SQLRepository) FindProfile(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	var (
		profile     domain.StudentProfile
		professorID sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, progress, professor_id FROM student_profiles WHERE user_id = $1",
		userID,
	).Scan(&profile.UserID, &profile.Progress, &professorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	profile.ProfessorID = nullStringPtr(professorID)
	return &profile, nil
}

// CreateProfile tolerates a concurrent insert for the same student: the
// conflicting insert is skipped and the stored row is returned.
func (r *SQLRepository) CreateProfile(ctx context.Context, profile domain.StudentProfile) (*domain.StudentProfile, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO student_profiles (user_id, progress, professor_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		profile.UserID,
		profile.Progress,
		profile.ProfessorID,
	)
	if err != nil {
		return nil, err
	}
	return r.FindProfile(ctx, profile.UserID)
}

func (r *SQLRepository) AssignProfessor(ctx context.Context, professorID string, studentIDs []string, outboxPayload []byte) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE student_profiles SET professor_id = $1 WHERE user_id = ANY($2)",
		professorID,
		pq.Array(studentIDs),
	)
	if err != nil {
		return 0, err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventStudentsAssigned, outboxPayload); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(updated), nil
}

// ListAssignedStudents only considers lessons given by the professor when
// computing the last and next lesson of each student.
func (r *SQLRepository) ListAssignedStudents(ctx context.Context, professorID string, now time.Time) ([]domain.AssignedStudent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.first_name, u.last_name, u.role, sp.progress,
		        (SELECT MAX(l.end_at) FROM lessons l
		          WHERE l.student_id = u.id AND l.professor_id = $1 AND l.status = 'COMPLETED'),
		        (SELECT MIN(l.start_at) FROM lessons l
		          WHERE l.student_id = u.id AND l.professor_id = $1 AND l.status = 'SCHEDULED' AND l.start_at >= $2)
		 FROM student_profiles sp
		 JOIN users u ON u.id = sp.user_id
		 WHERE sp.professor_id = $1
		 ORDER BY u.first_name, u.last_name, u.id`,
		professorID,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.AssignedStudent
	for rows.Next() {
		var (
			s          domain.AssignedStudent
			last, next sql.NullTime
		)
		err := rows.Scan(
			&s.Student.ID,
			&s.Student.Email,
			&s.Student.FirstName,
			&s.Student.LastName,
			&s.Student.Role,
			&s.Progress,
			&last,
			&next,
		)
		if err != nil {
			return nil, err
		}
		s.LastLesson = nullTimePtr(last)
		s.NextLesson = nullTimePtr(next)
		students = append(students, s)
	}
	return students, rows.Err()
}
