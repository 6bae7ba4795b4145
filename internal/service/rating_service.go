package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"movieclub/internal/domain"
)

const maxCommentLength = 1000

// RatingService owns the rating/comment entries and keeps the movies'
// derived vote columns in sync: every operation that changes a rating value
// recomputes the movie aggregate before returning.
type RatingService struct {
	comments domain.CommentRepository
	movies   domain.MovieRepository
	log      zerolog.Logger
}

func NewRatingService(comments domain.CommentRepository, movies domain.MovieRepository, log zerolog.Logger) *RatingService {
	return &RatingService{
		comments: comments,
		movies:   movies,
		log:      log,
	}
}

// SubmitInput carries an incoming rating/comment submission. Nil fields mean
// "not supplied" and leave existing values untouched on upsert.
type SubmitInput struct {
	Content  *string
	Rating   *int
	ParentID *int64
}

// ClearResult reports what clearing a rating did.
type ClearResult struct {
	Cleared bool            `json:"cleared"`
	Entry   *domain.Comment `json:"entry,omitempty"`
}

// Submit handles a rating/comment submission for (userID, movieID).
//
// With a parent id it appends a reply (never deduplicated, rating forced to
// 0). Without one it upserts the user's unique root entry. Submitting
// rating 0 with no content and no parent is a clear request and is delegated
// to Clear. All validation happens before any write.
func (s *RatingService) Submit(ctx context.Context, userID, movieID int64, in SubmitInput) (*domain.Comment, error) {
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) {
		return nil, invalid("rating must be an integer between 0 and 5")
	}

	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	if in.ParentID != nil {
		return s.submitReply(ctx, userID, movieID, *in.ParentID, content)
	}

	// An entry with no content and no rating is meaningless and never stored.
	if content == nil && in.Rating == nil {
		return nil, invalid("submission requires content or a rating")
	}

	if in.Rating != nil && *in.Rating == 0 && content == nil {
		res, err := s.Clear(ctx, userID, movieID)
		if err != nil {
			return nil, err
		}
		return res.Entry, nil
	}

	return s.upsertRoot(ctx, userID, movieID, in, content)
}

func (s *RatingService) submitReply(ctx context.Context, userID, movieID, parentID int64, content *string) (*domain.Comment, error) {
	if content == nil {
		return nil, invalid("reply content cannot be empty")
	}

	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("get parent entry: %w", err)
	}
	if parent.MovieID != movieID {
		return nil, invalid("parent entry belongs to a different movie")
	}
	// Replies always attach to the thread root.
	rootID := parent.ID
	if parent.ParentID != nil {
		rootID = *parent.ParentID
	}

	reply := &domain.Comment{
		UserID:   userID,
		MovieID:  movieID,
		ParentID: &rootID,
		Content:  *content,
		Rating:   0,
	}
	if err := s.comments.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return reply, nil
}

// upsertRoot creates the root entry if absent and updates it in place
// otherwise. A second submission never produces a second root.
func (s *RatingService) upsertRoot(ctx context.Context, userID, movieID int64, in SubmitInput, content *string) (*domain.Comment, error) {
	existing, err := s.comments.GetRoot(ctx, userID, movieID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get root entry: %w", err)
	}

	var entry *domain.Comment
	if existing == nil {
		entry = &domain.Comment{
			UserID:  userID,
			MovieID: movieID,
		}
		if content != nil {
			entry.Content = *content
		}
		if in.Rating != nil {
			entry.Rating = *in.Rating
		}
		if err := s.comments.Create(ctx, entry); err != nil {
			return nil, fmt.Errorf("create root entry: %w", err)
		}
	} else {
		entry = existing
		if content != nil {
			entry.Content = *content
		}
		if in.Rating != nil {
			entry.Rating = *in.Rating
		}
		if err := s.comments.Update(ctx, entry); err != nil {
			return nil, fmt.Errorf("update root entry: %w", err)
		}
	}

	if err := s.recompute(ctx, movieID); err != nil {
		return nil, err
	}
	return entry, nil
}

// Clear handles a rating-0 submission for the user's root entry: a
// content-less entry is deleted outright, a content-bearing one keeps its
// text with the rating zeroed, and a missing entry is reported as nothing to
// clear.
func (s *RatingService) Clear(ctx context.Context, userID, movieID int64) (*ClearResult, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	entry, err := s.comments.GetRoot(ctx, userID, movieID)
	if errors.Is(err, domain.ErrNotFound) {
		return &ClearResult{Cleared: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get root entry: %w", err)
	}

	if strings.TrimSpace(entry.Content) == "" {
		// No rating and no content left; the entry is meaningless.
		if err := s.comments.Delete(ctx, entry.ID); err != nil {
			return nil, fmt.Errorf("delete root entry: %w", err)
		}
		if err := s.recompute(ctx, movieID); err != nil {
			return nil, err
		}
		return &ClearResult{Cleared: true}, nil
	}

	entry.Rating = 0
	if err := s.comments.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("clear rating: %w", err)
	}
	if err := s.recompute(ctx, movieID); err != nil {
		return nil, err
	}
	return &ClearResult{Cleared: true, Entry: entry}, nil
}

// Delete removes an entry. Owners may delete their own entries; moderators
// and admins may delete anyone's. Deleting a root cascades its replies.
func (s *RatingService) Delete(ctx context.Context, entryID int64, requester *domain.User) error {
	entry, err := s.comments.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}
	if entry.UserID != requester.ID && !requester.Role.AtLeast(domain.RoleModerator) {
		return domain.ErrForbidden
	}

	if err := s.comments.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if err := s.recompute(ctx, entry.MovieID); err != nil {
		return err
	}
	s.log.Info().Int64("entry_id", entryID).Int64("requester_id", requester.ID).Msg("comment entry deleted")
	return nil
}

// Edit updates the content of an entry owned by the requester.
func (s *RatingService) Edit(ctx context.Context, entryID int64, requesterID int64, content string) (*domain.Comment, error) {
	trimmed, err := validateContent(&content)
	if err != nil {
		return nil, err
	}
	if trimmed == nil {
		return nil, invalid("content cannot be empty")
	}

	entry, err := s.comments.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	entry.Content = *trimmed
	if err := s.comments.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// CommentThread is a root entry with its replies in creation order.
type CommentThread struct {
	*domain.Comment
	Replies []*domain.Comment `json:"replies"`
}

// ListThreads returns the movie's root entries (oldest first), each with its
// replies attached.
func (s *RatingService) ListThreads(ctx context.Context, movieID int64) ([]*CommentThread, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	comments, err := s.comments.ListForMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	threads := make([]*CommentThread, 0)
	byID := make(map[int64]*CommentThread)
	for _, c := range comments {
		if c.IsRoot() {
			t := &CommentThread{Comment: c, Replies: []*domain.Comment{}}
			threads = append(threads, t)
			byID[c.ID] = t
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		if t, ok := byID[*c.ParentID]; ok {
			t.Replies = append(t.Replies, c)
		}
	}
	return threads, nil
}

// Recompute re-derives a movie's vote aggregates from its current entries.
func (s *RatingService) Recompute(ctx context.Context, movieID int64) (*domain.MovieAggregate, error) {
	return s.movies.RecomputeAggregates(ctx, movieID)
}

func (s *RatingService) recompute(ctx context.Context, movieID int64) error {
	if _, err := s.movies.RecomputeAggregates(ctx, movieID); err != nil {
		s.log.Error().Err(err).Int64("movie_id", movieID).Msg("aggregate recompute failed")
		return fmt.Errorf("recompute aggregates: %w", err)
	}
	return nil
}

// validateContent trims supplied content and enforces the length limit.
// Content that trims to empty is normalized to "not supplied"; callers that
// require text (replies, edits) check for nil themselves. This keeps
// rating-only submissions like {content: "", rating: 3} valid.
func validateContent(content *string) (*string, error) {
	if content == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*content)
	if trimmed == "" {
		return nil, nil
	}
	if len([]rune(trimmed)) > maxCommentLength {
		return nil, invalid("content exceeds 1000 characters")
	}
	return &trimmed, nil
}

// invalid wraps a validation message in ErrInvalidInput.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
