package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, email, hashed_password, role, bio, is_active, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, hashed_password, role, bio, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, u.Username, u.Email, u.HashedPassword, u.Role, u.Bio, u.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepo) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) ListActive(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = 1
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`
	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET username = ?, email = ?, hashed_password = ?, bio = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, u.Username, u.Email, u.HashedPassword, u.Bio, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRowAffected(res, "update user")
}

func (r *UserRepo) SetRole(ctx context.Context, id int64, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, role, id)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return requireRowAffected(res, "set role")
}

func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, active, id)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return requireRowAffected(res, "set active")
}

// Delete hard-deletes the user and everything they own, then reconciles the
// derived movie columns their rows contributed to. The cascade is explicit
// rather than relying on FK ON DELETE configuration.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback()

	// Movies whose aggregates or favorite counts the user touched.
	var movieIDs []int64
	if err := tx.SelectContext(ctx, &movieIDs, `
		SELECT movie_id FROM comments WHERE user_id = ?
		UNION
		SELECT movie_id FROM favorites WHERE user_id = ?
	`, id, id); err != nil {
		return fmt.Errorf("collect affected movies: %w", err)
	}

	stmts := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM comments WHERE parent_id IN (SELECT id FROM comments WHERE user_id = ?)`, []any{id}},
		{`DELETE FROM comments WHERE user_id = ?`, []any{id}},
		{`DELETE FROM messages WHERE sender_id = ? OR receiver_id = ?`, []any{id, id}},
		{`DELETE FROM favorites WHERE user_id = ?`, []any{id}},
		{`DELETE FROM watchlist WHERE user_id = ?`, []any{id}},
		{`DELETE FROM weekly_list_movies WHERE list_id IN (SELECT id FROM weekly_lists WHERE created_by = ?)`, []any{id}},
		{`DELETE FROM weekly_lists WHERE created_by = ?`, []any{id}},
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s.query, s.args...); err != nil {
			return fmt.Errorf("cascade delete user: %w", err)
		}
	}

	for _, movieID := range movieIDs {
		if _, err := tx.ExecContext(ctx, recomputeAggregatesQuery, movieID, movieID, movieID); err != nil {
			return fmt.Errorf("recompute aggregates after user delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, recomputeFavoriteCountQuery, movieID, movieID); err != nil {
			return fmt.Errorf("recompute favorite count after user delete: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := requireRowAffected(res, "delete user"); err != nil {
		return err
	}
	return tx.Commit()
}

// isUniqueViolation detects sqlite unique constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// requireRowAffected maps zero affected rows to ErrNotFound.
func requireRowAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
