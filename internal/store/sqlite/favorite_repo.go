package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type FavoriteRepo struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

var _ domain.FavoriteRepository = (*FavoriteRepo)(nil)

func (r *FavoriteRepo) Add(ctx context.Context, userID, movieID int64) error {
	// Toggle semantics: adding an existing favorite is a no-op.
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO favorites (user_id, movie_id, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) Remove(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = ? AND movie_id = ?
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM favorites WHERE user_id = ? AND movie_id = ?
	`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

func (r *FavoriteRepo) ListMoviesForUser(ctx context.Context, userID int64) ([]*domain.Movie, error) {
	query := `
		SELECT m.id, m.tmdb_id, m.title, m.year, m.overview, m.poster_url,
			m.local_vote_count, m.local_vote_average, m.favorite_count, m.created_at, m.updated_at
		FROM favorites f
		JOIN movies m ON m.id = f.movie_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC
	`
	var movies []*domain.Movie
	if err := r.db.SelectContext(ctx, &movies, query, userID); err != nil {
		return nil, fmt.Errorf("list favorite movies: %w", err)
	}
	return movies, nil
}
