package sqlite_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/store/sqlite"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:       username,
		HashedPassword: "x",
		Role:           domain.RoleUser,
		IsActive:       true,
	}
	require.NoError(t, sqlite.NewUserRepo(db).Create(context.Background(), u))
	return u
}

func seedMovie(t *testing.T, db *sqlx.DB, tmdbID int64, title string) *domain.Movie {
	t.Helper()
	m := &domain.Movie{
		TmdbID: tmdbID,
		Title:  title,
		Year:   2020,
	}
	require.NoError(t, sqlite.NewMovieRepo(db).Create(context.Background(), m))
	return m
}
