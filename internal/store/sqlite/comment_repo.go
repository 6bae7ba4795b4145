package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type CommentRepo struct {
	db *sqlx.DB
}

func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

var _ domain.CommentRepository = (*CommentRepo)(nil)

const commentColumns = `id, user_id, movie_id, parent_id, content, rating, created_at, updated_at`

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (user_id, movie_id, parent_id, content, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, c.UserID, c.MovieID, c.ParentID, c.Content, c.Rating)
	if err != nil {
		if isUniqueViolation(err) {
			// Second root entry for the same (user, movie); callers upsert
			// instead, so hitting this means a lost race.
			return domain.ErrConflict
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.GetContext(ctx, &c, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepo) GetRoot(ctx context.Context, userID, movieID int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.GetContext(ctx, &c, `
		SELECT `+commentColumns+` FROM comments
		WHERE user_id = ? AND movie_id = ? AND parent_id IS NULL
	`, userID, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get root comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE comments SET content = ?, rating = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, c.Content, c.Rating, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return requireRowAffected(res, "update comment")
}

// Delete removes the entry and, for roots, its replies. An orphaned reply is
// an invariant violation, so both deletes happen in one transaction.
func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete comment: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("delete replies: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if err := requireRowAffected(res, "delete comment"); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CommentRepo) ListForMovie(ctx context.Context, movieID int64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.SelectContext(ctx, &comments, `
		SELECT `+commentColumns+` FROM comments
		WHERE movie_id = ?
		ORDER BY created_at ASC, id ASC
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("list comments for movie: %w", err)
	}
	return comments, nil
}

func (r *CommentRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.SelectContext(ctx, &comments, `
		SELECT `+commentColumns+` FROM comments
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list comments by user: %w", err)
	}
	return comments, nil
}
