package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

const userColumns = "id, username, email, first_name, last_name, role, password, is_active, created_at"

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.PasswordHash,
		&user.Active,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id,
	))
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1",
		username,
	))
}

func (r *SQLRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR (email <> '' AND email = $2))",
		username,
		email,
	).Scan(&exists)
	return exists, err
}

func (r *SQLRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ANY($1)",
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *SQLRepository) CreateUser(ctx context.Context, user domain.User, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.PasswordHash,
		user.Active,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return err
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventAccountCreated, outboxPayload); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLRepository) UpdateEmail(ctx context.Context, id, email string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET email = $1 WHERE id = $2", email, id)
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

// ListUsers returns one page of users matching the filter and the total count
// of matches. The filter must already be normalized.
func (r *SQLRepository) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.UserSummary, int, error) {
	where, args := userFilterClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users u"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.role, u.password, u.is_active, u.created_at, sp.professor_id
		 FROM users u
		 LEFT JOIN student_profiles sp ON sp.user_id = u.id%s
		 ORDER BY u.created_at DESC, u.id
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := make([]domain.UserSummary, 0, filter.PageSize)
	for rows.Next() {
		var (
			s           domain.UserSummary
			professorID sql.NullString
		)
		err := rows.Scan(
			&s.ID,
			&s.Username,
			&s.Email,
			&s.FirstName,
			&s.LastName,
			&s.Role,
			&s.PasswordHash,
			&s.Active,
			&s.CreatedAt,
			&professorID,
		)
		if err != nil {
			return nil, 0, err
		}
		s.ProfessorID = nullStringPtr(professorID)
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func userFilterClause(filter domain.UserFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, filter.Role)
		conds = append(conds, fmt.Sprintf("u.role = $%d", len(args)))
	}
	switch filter.Status {
	case domain.UserStatusActive:
		conds = append(conds, "u.is_active")
	case domain.UserStatusInactive:
		conds = append(conds, "NOT u.is_active")
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(u.email ILIKE $%[1]d OR u.username ILIKE $%[1]d OR u.first_name ILIKE $%[1]d OR u.last_name ILIKE $%[1]d)",
			n,
		))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
