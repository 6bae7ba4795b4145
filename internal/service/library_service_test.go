package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/service"
	"movieclub/internal/store/sqlite"
)

func newLibraryService(t *testing.T) (*service.LibraryService, *sqlite.MovieRepo, *domain.User, *domain.Movie) {
	db := newTestDB(t)
	movies := sqlite.NewMovieRepo(db)
	svc := service.NewLibraryService(sqlite.NewFavoriteRepo(db), sqlite.NewWatchlistRepo(db), movies, testLogger())
	return svc, movies, createUser(t, db, "alice", domain.RoleUser), createMovie(t, db, 100, "Heat")
}

func TestLibraryServiceFavoriteToggle(t *testing.T) {
	svc, movies, alice, movie := newLibraryService(t)
	ctx := context.Background()

	count, err := svc.Favorite(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Favoriting again is a no-op, not a second row.
	count, err = svc.Favorite(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := movies.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FavoriteCount)

	count, err = svc.Unfavorite(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	is, err := svc.IsFavorite(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, is)

	_, err = svc.Favorite(ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLibraryServiceWatchlist(t *testing.T) {
	svc, _, alice, movie := newLibraryService(t)
	ctx := context.Background()

	require.NoError(t, svc.WatchlistAdd(ctx, alice.ID, movie.ID))

	entries, err := svc.Watchlist(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Watched)
	assert.Nil(t, entries[0].WatchedAt)

	entry, err := svc.SetWatched(ctx, alice.ID, movie.ID, true)
	require.NoError(t, err)
	assert.True(t, entry.Watched)
	assert.NotNil(t, entry.WatchedAt)

	entry, err = svc.SetWatched(ctx, alice.ID, movie.ID, false)
	require.NoError(t, err)
	assert.False(t, entry.Watched)
	assert.Nil(t, entry.WatchedAt)

	require.NoError(t, svc.WatchlistRemove(ctx, alice.ID, movie.ID))
	entries, err = svc.Watchlist(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.SetWatched(ctx, alice.ID, movie.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
