package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/store/sqlite"
)

func TestMovieRepoRecomputeAggregates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	movies := sqlite.NewMovieRepo(db)
	comments := sqlite.NewCommentRepo(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	movie := seedMovie(t, db, 100, "Heat")

	rootA := &domain.Comment{UserID: alice.ID, MovieID: movie.ID, Content: "great", Rating: 5}
	require.NoError(t, comments.Create(ctx, rootA))
	rootB := &domain.Comment{UserID: bob.ID, MovieID: movie.ID, Rating: 3}
	require.NoError(t, comments.Create(ctx, rootB))
	// Comment-only root and a reply both carry rating 0 and never count.
	reply := &domain.Comment{UserID: bob.ID, MovieID: movie.ID, ParentID: &rootA.ID, Content: "agreed"}
	require.NoError(t, comments.Create(ctx, reply))

	agg, err := movies.RecomputeAggregates(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.VoteCount)
	assert.InDelta(t, 4.0, agg.VoteAverage, 1e-9)

	// Idempotent: running it again changes nothing.
	agg, err = movies.RecomputeAggregates(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.VoteCount)
	assert.InDelta(t, 4.0, agg.VoteAverage, 1e-9)

	require.NoError(t, comments.Delete(ctx, rootA.ID))
	agg, err = movies.RecomputeAggregates(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, agg.VoteCount)
	assert.InDelta(t, 3.0, agg.VoteAverage, 1e-9)

	require.NoError(t, comments.Delete(ctx, rootB.ID))
	agg, err = movies.RecomputeAggregates(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.VoteCount)
	assert.Zero(t, agg.VoteAverage)
}

func TestMovieRepoRecomputeFavoriteCount(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	movies := sqlite.NewMovieRepo(db)
	favorites := sqlite.NewFavoriteRepo(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	movie := seedMovie(t, db, 100, "Heat")

	require.NoError(t, favorites.Add(ctx, alice.ID, movie.ID))
	require.NoError(t, favorites.Add(ctx, bob.ID, movie.ID))
	// Favoriting twice is a no-op.
	require.NoError(t, favorites.Add(ctx, alice.ID, movie.ID))

	count, err := movies.RecomputeFavoriteCount(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, favorites.Remove(ctx, bob.ID, movie.ID))
	count, err = movies.RecomputeFavoriteCount(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMovieRepoDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	movies := sqlite.NewMovieRepo(db)
	comments := sqlite.NewCommentRepo(db)
	favorites := sqlite.NewFavoriteRepo(db)
	watchlist := sqlite.NewWatchlistRepo(db)

	alice := seedUser(t, db, "alice")
	movie := seedMovie(t, db, 100, "Heat")

	root := &domain.Comment{UserID: alice.ID, MovieID: movie.ID, Content: "great", Rating: 5}
	require.NoError(t, comments.Create(ctx, root))
	require.NoError(t, favorites.Add(ctx, alice.ID, movie.ID))
	require.NoError(t, watchlist.Add(ctx, alice.ID, movie.ID))

	require.NoError(t, movies.Delete(ctx, movie.ID))

	_, err := movies.GetByID(ctx, movie.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = comments.GetByID(ctx, root.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	exists, err := favorites.Exists(ctx, alice.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	entries, err := watchlist.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMovieRepoSearch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	movies := sqlite.NewMovieRepo(db)

	seedMovie(t, db, 100, "Heat")
	seedMovie(t, db, 200, "Heathers")
	seedMovie(t, db, 300, "Ronin")

	found, total, err := movies.Search(ctx, "Heat", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, found, 2)
	assert.Equal(t, "Heat", found[0].Title)
	assert.Equal(t, "Heathers", found[1].Title)

	found, total, err = movies.Search(ctx, "", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, found, 1)

	found, total, err = movies.Search(ctx, "nothing", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)
}

func TestMovieRepoDuplicateTmdbID(t *testing.T) {
	db := openTestDB(t)
	seedMovie(t, db, 100, "Heat")

	err := sqlite.NewMovieRepo(db).Create(context.Background(), &domain.Movie{TmdbID: 100, Title: "Heat again"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
