package domain

import "time"

// User represents an application user.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          *string   `db:"email" json:"email,omitempty"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Role           Role      `db:"role" json:"role"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Movie is a catalog entry. LocalVoteCount, LocalVoteAverage and
// FavoriteCount are derived columns maintained by recompute queries;
// they are never written from client input.
type Movie struct {
	ID               int64     `db:"id" json:"id"`
	TmdbID           int64     `db:"tmdb_id" json:"tmdb_id"`
	Title            string    `db:"title" json:"title"`
	Year             int       `db:"year" json:"year"`
	Overview         *string   `db:"overview" json:"overview,omitempty"`
	PosterURL        *string   `db:"poster_url" json:"poster_url,omitempty"`
	LocalVoteCount   int       `db:"local_vote_count" json:"local_vote_count"`
	LocalVoteAverage float64   `db:"local_vote_average" json:"local_vote_average"`
	FavoriteCount    int       `db:"favorite_count" json:"favorite_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Comment is a rating/comment entry. A root entry (ParentID nil) carries the
// user's rating for the movie, 0 meaning "no rating". At most one root entry
// exists per (user, movie). Replies reference a root of the same movie and
// always carry rating 0.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	MovieID   int64     `db:"movie_id" json:"movie_id"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Content   string    `db:"content" json:"content"`
	Rating    int       `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsRoot reports whether the entry is a top-level rating/comment.
func (c *Comment) IsRoot() bool { return c.ParentID == nil }

// MovieAggregate holds the derived vote fields recomputed from comment rows.
type MovieAggregate struct {
	VoteCount   int     `db:"local_vote_count" json:"vote_count"`
	VoteAverage float64 `db:"local_vote_average" json:"vote_average"`
}

// Message is a direct message between two users.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ConversationSummary describes one two-party conversation from the
// viewer's perspective, for the conversation overview listing.
type ConversationSummary struct {
	OtherUserID   int64     `db:"other_user_id" json:"other_user_id"`
	OtherUsername string    `db:"other_username" json:"other_username"`
	LastContent   string    `db:"last_content" json:"last_content"`
	LastCreatedAt time.Time `db:"last_created_at" json:"last_created_at"`
	UnreadCount   int       `db:"unread_count" json:"unread_count"`
}

// Favorite marks a movie as a user's favorite.
type Favorite struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	MovieID   int64     `db:"movie_id" json:"movie_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WatchlistEntry is a movie on a user's watchlist.
type WatchlistEntry struct {
	UserID    int64      `db:"user_id" json:"user_id"`
	MovieID   int64      `db:"movie_id" json:"movie_id"`
	Watched   bool       `db:"watched" json:"watched"`
	WatchedAt *time.Time `db:"watched_at" json:"watched_at,omitempty"`
	AddedAt   time.Time  `db:"added_at" json:"added_at"`
}

// WeeklyList is an admin-curated list of movies for a given ISO week.
// Unpublished lists are only visible to staff, or via the share token.
type WeeklyList struct {
	ID          int64     `db:"id" json:"id"`
	Week        string    `db:"week" json:"week"` // ISO week, e.g. "2026-W35"
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Published   bool      `db:"published" json:"published"`
	ShareToken  string    `db:"share_token" json:"share_token"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// WeeklyListMovie is one ordered movie reference inside a weekly list.
type WeeklyListMovie struct {
	ListID   int64     `db:"list_id" json:"list_id"`
	MovieID  int64     `db:"movie_id" json:"movie_id"`
	Position int       `db:"position" json:"position"`
	AddedAt  time.Time `db:"added_at" json:"added_at"`
}
