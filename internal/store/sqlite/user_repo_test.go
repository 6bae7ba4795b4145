package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/store/sqlite"
)

func TestUserRepoDuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "alice")

	err := sqlite.NewUserRepo(db).Create(context.Background(), &domain.User{
		Username:       "alice",
		HashedPassword: "x",
		Role:           domain.RoleUser,
		IsActive:       true,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepoSetRole(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := sqlite.NewUserRepo(db)

	alice := seedUser(t, db, "alice")
	require.NoError(t, users.SetRole(ctx, alice.ID, domain.RoleModerator))

	got, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, got.Role)

	assert.ErrorIs(t, users.SetRole(ctx, 9999, domain.RoleAdmin), domain.ErrNotFound)
}

func TestUserRepoDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := sqlite.NewUserRepo(db)
	movies := sqlite.NewMovieRepo(db)
	comments := sqlite.NewCommentRepo(db)
	favorites := sqlite.NewFavoriteRepo(db)
	messages := sqlite.NewMessageRepo(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	movie := seedMovie(t, db, 100, "Heat")

	// Alice rates and favorites; bob replies to her thread and messages her.
	root := &domain.Comment{UserID: alice.ID, MovieID: movie.ID, Content: "great", Rating: 5}
	require.NoError(t, comments.Create(ctx, root))
	reply := &domain.Comment{UserID: bob.ID, MovieID: movie.ID, ParentID: &root.ID, Content: "agreed"}
	require.NoError(t, comments.Create(ctx, reply))
	require.NoError(t, favorites.Add(ctx, alice.ID, movie.ID))
	require.NoError(t, messages.Create(ctx, &domain.Message{SenderID: bob.ID, ReceiverID: alice.ID, Content: "hi"}))

	_, err := movies.RecomputeAggregates(ctx, movie.ID)
	require.NoError(t, err)
	_, err = movies.RecomputeFavoriteCount(ctx, movie.ID)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, alice.ID))

	_, err = users.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// Her thread is gone, including bob's reply.
	_, err = comments.GetByID(ctx, root.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = comments.GetByID(ctx, reply.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Derived columns were reconciled inside the delete.
	got, err := movies.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LocalVoteCount)
	assert.Zero(t, got.LocalVoteAverage)
	assert.Zero(t, got.FavoriteCount)

	count, err := messages.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
