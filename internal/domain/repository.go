package domain

import (
	"context"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context, offset, limit int) ([]*User, error)
	Update(ctx context.Context, u *User) error
	SetRole(ctx context.Context, id int64, role Role) error
	SetActive(ctx context.Context, id int64, active bool) error
	// Delete removes the user and all rows that reference them: comments
	// (with reply cascade and aggregate fixup), messages, favorites,
	// watchlist entries.
	Delete(ctx context.Context, id int64) error
}

// MovieRepository defines persistence operations for catalog movies.
type MovieRepository interface {
	Create(ctx context.Context, m *Movie) error
	GetByID(ctx context.Context, id int64) (*Movie, error)
	GetByTmdbID(ctx context.Context, tmdbID int64) (*Movie, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*Movie, int, error)
	Update(ctx context.Context, m *Movie) error
	// Delete removes the movie and all dependent rows (comments, favorites,
	// watchlist entries, weekly list references).
	Delete(ctx context.Context, id int64) error
	// RecomputeAggregates rewrites local_vote_count and local_vote_average
	// from the current comment rows with rating > 0. It is idempotent and
	// order-independent: the final values depend only on the row set at the
	// time it runs.
	RecomputeAggregates(ctx context.Context, movieID int64) (*MovieAggregate, error)
	// RecomputeFavoriteCount rewrites favorite_count from favorite rows.
	RecomputeFavoriteCount(ctx context.Context, movieID int64) (int, error)
}

// CommentRepository defines persistence operations for rating/comment entries.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	// GetRoot returns the unique root entry for (userID, movieID), or
	// ErrNotFound if the user has no root entry for the movie.
	GetRoot(ctx context.Context, userID, movieID int64) (*Comment, error)
	Update(ctx context.Context, c *Comment) error
	// Delete removes the entry; deleting a root also removes its replies.
	Delete(ctx context.Context, id int64) error
	ListForMovie(ctx context.Context, movieID int64) ([]*Comment, error)
	ListByUser(ctx context.Context, userID int64) ([]*Comment, error)
}

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// OpenConversation returns the full two-party history between viewer and
	// other in ascending creation order and, in the same call, marks every
	// unread message from other to viewer as read. Repeating the call with no
	// new messages changes nothing.
	OpenConversation(ctx context.Context, viewerID, otherID int64) ([]*Message, error)
	ListConversations(ctx context.Context, viewerID int64) ([]*ConversationSummary, error)
	UnreadCount(ctx context.Context, viewerID int64) (int, error)
}

// FavoriteRepository defines favorite toggling and listing.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, movieID int64) error
	Remove(ctx context.Context, userID, movieID int64) error
	Exists(ctx context.Context, userID, movieID int64) (bool, error)
	ListMoviesForUser(ctx context.Context, userID int64) ([]*Movie, error)
}

// WatchlistRepository defines watchlist operations.
type WatchlistRepository interface {
	Add(ctx context.Context, userID, movieID int64) error
	Remove(ctx context.Context, userID, movieID int64) error
	Get(ctx context.Context, userID, movieID int64) (*WatchlistEntry, error)
	SetWatched(ctx context.Context, userID, movieID int64, watched bool) error
	ListForUser(ctx context.Context, userID int64) ([]*WatchlistEntry, error)
}

// WeeklyListRepository defines operations for curated weekly lists.
type WeeklyListRepository interface {
	Create(ctx context.Context, l *WeeklyList) error
	GetByID(ctx context.Context, id int64) (*WeeklyList, error)
	GetByWeek(ctx context.Context, week string) (*WeeklyList, error)
	GetByShareToken(ctx context.Context, token string) (*WeeklyList, error)
	List(ctx context.Context, publishedOnly bool) ([]*WeeklyList, error)
	Update(ctx context.Context, l *WeeklyList) error
	Delete(ctx context.Context, id int64) error
	AddMovie(ctx context.Context, listID, movieID int64, position int) error
	RemoveMovie(ctx context.Context, listID, movieID int64) error
	ListMovies(ctx context.Context, listID int64) ([]*Movie, error)
}
