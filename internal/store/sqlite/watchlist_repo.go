package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type WatchlistRepo struct {
	db *sqlx.DB
}

func NewWatchlistRepo(db *sqlx.DB) *WatchlistRepo {
	return &WatchlistRepo{db: db}
}

var _ domain.WatchlistRepository = (*WatchlistRepo)(nil)

func (r *WatchlistRepo) Add(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (user_id, movie_id, watched, added_at)
		VALUES (?, ?, 0, CURRENT_TIMESTAMP)
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("insert watchlist entry: %w", err)
	}
	return nil
}

func (r *WatchlistRepo) Remove(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE user_id = ? AND movie_id = ?
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	return nil
}

func (r *WatchlistRepo) Get(ctx context.Context, userID, movieID int64) (*domain.WatchlistEntry, error) {
	var e domain.WatchlistEntry
	err := r.db.GetContext(ctx, &e, `
		SELECT user_id, movie_id, watched, watched_at, added_at
		FROM watchlist WHERE user_id = ? AND movie_id = ?
	`, userID, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get watchlist entry: %w", err)
	}
	return &e, nil
}

func (r *WatchlistRepo) SetWatched(ctx context.Context, userID, movieID int64, watched bool) error {
	query := `
		UPDATE watchlist
		SET watched = ?, watched_at = CASE WHEN ? THEN CURRENT_TIMESTAMP ELSE NULL END
		WHERE user_id = ? AND movie_id = ?
	`
	res, err := r.db.ExecContext(ctx, query, watched, watched, userID, movieID)
	if err != nil {
		return fmt.Errorf("set watched: %w", err)
	}
	return requireRowAffected(res, "set watched")
}

func (r *WatchlistRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.WatchlistEntry, error) {
	var entries []*domain.WatchlistEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT user_id, movie_id, watched, watched_at, added_at
		FROM watchlist
		WHERE user_id = ?
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}
