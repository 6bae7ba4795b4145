package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type MovieRepo struct {
	db *sqlx.DB
}

func NewMovieRepo(db *sqlx.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

var _ domain.MovieRepository = (*MovieRepo)(nil)

const movieColumns = `id, tmdb_id, title, year, overview, poster_url,
	local_vote_count, local_vote_average, favorite_count, created_at, updated_at`

// recomputeAggregatesQuery rewrites the derived vote columns from the current
// comment rows. Replies always carry rating 0, so `rating > 0` naturally
// restricts the aggregate to root ratings. The statement is idempotent and
// order-independent: its result depends only on the row set when it runs.
// Args: movieID x3.
const recomputeAggregatesQuery = `
	UPDATE movies SET
		local_vote_count = (SELECT COUNT(*) FROM comments WHERE movie_id = ? AND rating > 0),
		local_vote_average = (SELECT COALESCE(AVG(rating), 0) FROM comments WHERE movie_id = ? AND rating > 0),
		updated_at = CURRENT_TIMESTAMP
	WHERE id = ?
`

// recomputeFavoriteCountQuery rewrites favorite_count from favorite rows.
// Args: movieID x2.
const recomputeFavoriteCountQuery = `
	UPDATE movies SET
		favorite_count = (SELECT COUNT(*) FROM favorites WHERE movie_id = ?),
		updated_at = CURRENT_TIMESTAMP
	WHERE id = ?
`

func (r *MovieRepo) Create(ctx context.Context, m *domain.Movie) error {
	query := `
		INSERT INTO movies (tmdb_id, title, year, overview, poster_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, m.TmdbID, m.Title, m.Year, m.Overview, m.PosterURL)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id
	return nil
}

func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	return r.getMovie(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
}

func (r *MovieRepo) GetByTmdbID(ctx context.Context, tmdbID int64) (*domain.Movie, error) {
	return r.getMovie(ctx, `SELECT `+movieColumns+` FROM movies WHERE tmdb_id = ?`, tmdbID)
}

func (r *MovieRepo) getMovie(ctx context.Context, query string, arg any) (*domain.Movie, error) {
	var m domain.Movie
	err := r.db.GetContext(ctx, &m, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return &m, nil
}

func (r *MovieRepo) Search(ctx context.Context, query string, offset, limit int) ([]*domain.Movie, int, error) {
	where := ""
	args := []any{}
	if query != "" {
		where = `WHERE title LIKE ?`
		args = append(args, "%"+query+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM movies `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}
	if total == 0 {
		return []*domain.Movie{}, 0, nil
	}

	selectQuery := `SELECT ` + movieColumns + ` FROM movies ` + where + `
		ORDER BY title ASC, id ASC
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var movies []*domain.Movie
	if err := r.db.SelectContext(ctx, &movies, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("search movies: %w", err)
	}
	return movies, total, nil
}

func (r *MovieRepo) Update(ctx context.Context, m *domain.Movie) error {
	query := `
		UPDATE movies
		SET tmdb_id = ?, title = ?, year = ?, overview = ?, poster_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, m.TmdbID, m.Title, m.Year, m.Overview, m.PosterURL, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update movie: %w", err)
	}
	return requireRowAffected(res, "update movie")
}

// Delete removes the movie and every dependent row. Explicit cascade, same
// reasoning as UserRepo.Delete.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete movie: %w", err)
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM comments WHERE movie_id = ?`,
		`DELETE FROM favorites WHERE movie_id = ?`,
		`DELETE FROM watchlist WHERE movie_id = ?`,
		`DELETE FROM weekly_list_movies WHERE movie_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("cascade delete movie: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if err := requireRowAffected(res, "delete movie"); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MovieRepo) RecomputeAggregates(ctx context.Context, movieID int64) (*domain.MovieAggregate, error) {
	res, err := r.db.ExecContext(ctx, recomputeAggregatesQuery, movieID, movieID, movieID)
	if err != nil {
		return nil, fmt.Errorf("recompute aggregates: %w", err)
	}
	if err := requireRowAffected(res, "recompute aggregates"); err != nil {
		return nil, err
	}

	var agg domain.MovieAggregate
	if err := r.db.GetContext(ctx, &agg, `
		SELECT local_vote_count, local_vote_average FROM movies WHERE id = ?
	`, movieID); err != nil {
		return nil, fmt.Errorf("read aggregates: %w", err)
	}
	return &agg, nil
}

func (r *MovieRepo) RecomputeFavoriteCount(ctx context.Context, movieID int64) (int, error) {
	res, err := r.db.ExecContext(ctx, recomputeFavoriteCountQuery, movieID, movieID)
	if err != nil {
		return 0, fmt.Errorf("recompute favorite count: %w", err)
	}
	if err := requireRowAffected(res, "recompute favorite count"); err != nil {
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT favorite_count FROM movies WHERE id = ?`, movieID); err != nil {
		return 0, fmt.Errorf("read favorite count: %w", err)
	}
	return count, nil
}
