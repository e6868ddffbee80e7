package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

const materialColumns = "id, student_id, professor_id, title, type, status, uploaded_at"

func scanMaterial(row rowScanner) (*domain.Material, error) {
	var (
		m           domain.Material
		professorID sql.NullString
	)
	err := row.Scan(&m.ID, &m.StudentID, &professorID, &m.Title, &m.Type, &m.Status, &m.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.ProfessorID = nullStringPtr(professorID)
	return &m, nil
}

func (r *SQLRepository) ListMaterials(ctx context.Context, studentID string) ([]domain.Material, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE student_id = $1 ORDER BY uploaded_at DESC, id",
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func (r *SQLRepository) FindMaterial(ctx context.Context, materialID, studentID string) (*domain.Material, error) {
	return scanMaterial(r.db.QueryRowContext(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE id = $1 AND student_id = $2",
		materialID,
		studentID,
	))
}

func (r *SQLRepository) UpdateMaterialStatus(ctx context.Context, materialID string, status domain.MaterialStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE materials SET status = $1 WHERE id = $2",
		status,
		materialID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
