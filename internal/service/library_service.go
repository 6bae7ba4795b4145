package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"movieclub/internal/domain"
)

// LibraryService handles per-user favorites and watchlist state, keeping the
// movies' favorite_count column derived from favorite rows.
type LibraryService struct {
	favorites domain.FavoriteRepository
	watchlist domain.WatchlistRepository
	movies    domain.MovieRepository
	log       zerolog.Logger
}

func NewLibraryService(favorites domain.FavoriteRepository, watchlist domain.WatchlistRepository, movies domain.MovieRepository, log zerolog.Logger) *LibraryService {
	return &LibraryService{
		favorites: favorites,
		watchlist: watchlist,
		movies:    movies,
		log:       log,
	}
}

// Favorite adds the movie to the user's favorites and returns the movie's
// updated favorite count. Adding twice is a no-op.
func (s *LibraryService) Favorite(ctx context.Context, userID, movieID int64) (int, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return 0, fmt.Errorf("get movie: %w", err)
	}
	if err := s.favorites.Add(ctx, userID, movieID); err != nil {
		return 0, err
	}
	count, err := s.movies.RecomputeFavoriteCount(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("recompute favorite count: %w", err)
	}
	return count, nil
}

// Unfavorite removes the favorite and returns the updated count.
func (s *LibraryService) Unfavorite(ctx context.Context, userID, movieID int64) (int, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return 0, fmt.Errorf("get movie: %w", err)
	}
	if err := s.favorites.Remove(ctx, userID, movieID); err != nil {
		return 0, err
	}
	count, err := s.movies.RecomputeFavoriteCount(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("recompute favorite count: %w", err)
	}
	return count, nil
}

func (s *LibraryService) IsFavorite(ctx context.Context, userID, movieID int64) (bool, error) {
	return s.favorites.Exists(ctx, userID, movieID)
}

func (s *LibraryService) ListFavorites(ctx context.Context, userID int64) ([]*domain.Movie, error) {
	return s.favorites.ListMoviesForUser(ctx, userID)
}

// WatchlistAdd puts the movie on the user's watchlist (unwatched).
func (s *LibraryService) WatchlistAdd(ctx context.Context, userID, movieID int64) error {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return fmt.Errorf("get movie: %w", err)
	}
	return s.watchlist.Add(ctx, userID, movieID)
}

func (s *LibraryService) WatchlistRemove(ctx context.Context, userID, movieID int64) error {
	return s.watchlist.Remove(ctx, userID, movieID)
}

// SetWatched flags a watchlist entry as watched (stamping watched_at) or
// unwatched. The entry must already be on the list.
func (s *LibraryService) SetWatched(ctx context.Context, userID, movieID int64, watched bool) (*domain.WatchlistEntry, error) {
	if err := s.watchlist.SetWatched(ctx, userID, movieID, watched); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("movie is not on the watchlist: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s.watchlist.Get(ctx, userID, movieID)
}

func (s *LibraryService) Watchlist(ctx context.Context, userID int64) ([]*domain.WatchlistEntry, error) {
	return s.watchlist.ListForUser(ctx, userID)
}
