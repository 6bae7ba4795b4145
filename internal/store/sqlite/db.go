package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate creates the schema. Idempotent CREATE TABLE / CREATE INDEX
// statements; the derived movie columns (local_vote_count,
// local_vote_average, favorite_count) are only ever written by the
// recompute queries in movie_repo.go.
func Migrate(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE,
			hashed_password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			bio TEXT,
			is_active BOOLEAN DEFAULT TRUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS movies (
			id INTEGER PRIMARY KEY,
			tmdb_id INTEGER UNIQUE NOT NULL,
			title VARCHAR(255) NOT NULL,
			year INTEGER NOT NULL DEFAULT 0,
			overview TEXT,
			poster_url TEXT,
			local_vote_count INTEGER NOT NULL DEFAULT 0,
			local_vote_average REAL NOT NULL DEFAULT 0,
			favorite_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			parent_id INTEGER,
			content TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (movie_id) REFERENCES movies(id),
			FOREIGN KEY (parent_id) REFERENCES comments(id)
		);`,
		// One root entry per (user, movie); replies are unconstrained.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_comments_root_unique
			ON comments(user_id, movie_id) WHERE parent_id IS NULL;`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			sender_id INTEGER NOT NULL,
			receiver_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (sender_id) REFERENCES users(id),
			FOREIGN KEY (receiver_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS favorites (
			user_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (movie_id) REFERENCES movies(id)
		);`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			user_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			watched BOOLEAN NOT NULL DEFAULT 0,
			watched_at DATETIME,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (movie_id) REFERENCES movies(id)
		);`,
		`CREATE TABLE IF NOT EXISTS weekly_lists (
			id INTEGER PRIMARY KEY,
			week VARCHAR(10) UNIQUE NOT NULL,
			title VARCHAR(100) NOT NULL,
			description TEXT,
			published BOOLEAN NOT NULL DEFAULT 0,
			share_token VARCHAR(36) UNIQUE NOT NULL,
			created_by INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (created_by) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS weekly_list_movies (
			list_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (list_id, movie_id),
			FOREIGN KEY (list_id) REFERENCES weekly_lists(id),
			FOREIGN KEY (movie_id) REFERENCES movies(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);`,
		`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_movie ON comments(movie_id);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver_unread ON messages(receiver_id, is_read);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair_created ON messages(sender_id, receiver_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_movie ON favorites(movie_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
