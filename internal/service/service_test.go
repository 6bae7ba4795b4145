package service_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/store/sqlite"
)

// Service tests run against a real in-memory store so the derived-column and
// cascade behavior is exercised end to end.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func createUser(t *testing.T, db *sqlx.DB, username string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:       username,
		HashedPassword: "x",
		Role:           role,
		IsActive:       true,
	}
	require.NoError(t, sqlite.NewUserRepo(db).Create(context.Background(), u))
	return u
}

func createMovie(t *testing.T, db *sqlx.DB, tmdbID int64, title string) *domain.Movie {
	t.Helper()
	m := &domain.Movie{TmdbID: tmdbID, Title: title, Year: 2020}
	require.NoError(t, sqlite.NewMovieRepo(db).Create(context.Background(), m))
	return m
}

func ptr[T any](v T) *T { return &v }
