package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type WeeklyListRepo struct {
	db *sqlx.DB
}

func NewWeeklyListRepo(db *sqlx.DB) *WeeklyListRepo {
	return &WeeklyListRepo{db: db}
}

var _ domain.WeeklyListRepository = (*WeeklyListRepo)(nil)

const weeklyListColumns = `id, week, title, description, published, share_token, created_by, created_at, updated_at`

func (r *WeeklyListRepo) Create(ctx context.Context, l *domain.WeeklyList) error {
	query := `
		INSERT INTO weekly_lists (week, title, description, published, share_token, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, l.Week, l.Title, l.Description, l.Published, l.ShareToken, l.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert weekly list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	l.ID = id
	return nil
}

func (r *WeeklyListRepo) GetByID(ctx context.Context, id int64) (*domain.WeeklyList, error) {
	return r.getList(ctx, `SELECT `+weeklyListColumns+` FROM weekly_lists WHERE id = ?`, id)
}

func (r *WeeklyListRepo) GetByWeek(ctx context.Context, week string) (*domain.WeeklyList, error) {
	return r.getList(ctx, `SELECT `+weeklyListColumns+` FROM weekly_lists WHERE week = ?`, week)
}

func (r *WeeklyListRepo) GetByShareToken(ctx context.Context, token string) (*domain.WeeklyList, error) {
	return r.getList(ctx, `SELECT `+weeklyListColumns+` FROM weekly_lists WHERE share_token = ?`, token)
}

func (r *WeeklyListRepo) getList(ctx context.Context, query string, arg any) (*domain.WeeklyList, error) {
	var l domain.WeeklyList
	err := r.db.GetContext(ctx, &l, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get weekly list: %w", err)
	}
	return &l, nil
}

func (r *WeeklyListRepo) List(ctx context.Context, publishedOnly bool) ([]*domain.WeeklyList, error) {
	query := `SELECT ` + weeklyListColumns + ` FROM weekly_lists`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY week DESC`

	var lists []*domain.WeeklyList
	if err := r.db.SelectContext(ctx, &lists, query); err != nil {
		return nil, fmt.Errorf("list weekly lists: %w", err)
	}
	return lists, nil
}

func (r *WeeklyListRepo) Update(ctx context.Context, l *domain.WeeklyList) error {
	query := `
		UPDATE weekly_lists
		SET week = ?, title = ?, description = ?, published = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, l.Week, l.Title, l.Description, l.Published, l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update weekly list: %w", err)
	}
	return requireRowAffected(res, "update weekly list")
}

func (r *WeeklyListRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete weekly list: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_list_movies WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("delete weekly list movies: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM weekly_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete weekly list: %w", err)
	}
	if err := requireRowAffected(res, "delete weekly list"); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *WeeklyListRepo) AddMovie(ctx context.Context, listID, movieID int64, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weekly_list_movies (list_id, movie_id, position, added_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(list_id, movie_id) DO UPDATE SET position = excluded.position
	`, listID, movieID, position)
	if err != nil {
		return fmt.Errorf("add movie to weekly list: %w", err)
	}
	return nil
}

func (r *WeeklyListRepo) RemoveMovie(ctx context.Context, listID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM weekly_list_movies WHERE list_id = ? AND movie_id = ?
	`, listID, movieID)
	if err != nil {
		return fmt.Errorf("remove movie from weekly list: %w", err)
	}
	return nil
}

func (r *WeeklyListRepo) ListMovies(ctx context.Context, listID int64) ([]*domain.Movie, error) {
	query := `
		SELECT m.id, m.tmdb_id, m.title, m.year, m.overview, m.poster_url,
			m.local_vote_count, m.local_vote_average, m.favorite_count, m.created_at, m.updated_at
		FROM weekly_list_movies lm
		JOIN movies m ON m.id = lm.movie_id
		WHERE lm.list_id = ?
		ORDER BY lm.position ASC, lm.added_at ASC
	`
	var movies []*domain.Movie
	if err := r.db.SelectContext(ctx, &movies, query, listID); err != nil {
		return nil, fmt.Errorf("list weekly list movies: %w", err)
	}
	return movies, nil
}
