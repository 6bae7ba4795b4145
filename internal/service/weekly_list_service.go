package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"movieclub/internal/domain"
)

// WeeklyListService manages admin-curated weekly lists. Mutations are
// admin-only, enforced at the route layer.
type WeeklyListService struct {
	lists    domain.WeeklyListRepository
	movies   domain.MovieRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewWeeklyListService(lists domain.WeeklyListRepository, movies domain.MovieRepository, validate *validator.Validate, log zerolog.Logger) *WeeklyListService {
	return &WeeklyListService{lists: lists, movies: movies, validate: validate, log: log}
}

type WeeklyListInput struct {
	Week        string  `validate:"required,len=8"` // "2026-W35"
	Title       string  `validate:"required,max=100"`
	Description *string `validate:"omitempty,max=2000"`
	Published   bool
}

func (s *WeeklyListService) Create(ctx context.Context, creatorID int64, in WeeklyListInput) (*domain.WeeklyList, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err.Error())
	}

	list := &domain.WeeklyList{
		Week:        in.Week,
		Title:       in.Title,
		Description: in.Description,
		Published:   in.Published,
		ShareToken:  uuid.NewString(),
		CreatedBy:   creatorID,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	s.log.Info().Int64("list_id", list.ID).Str("week", list.Week).Msg("weekly list created")
	return list, nil
}

func (s *WeeklyListService) Update(ctx context.Context, id int64, in WeeklyListInput) (*domain.WeeklyList, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err.Error())
	}

	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	list.Week = in.Week
	list.Title = in.Title
	list.Description = in.Description
	list.Published = in.Published

	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *WeeklyListService) Delete(ctx context.Context, id int64) error {
	return s.lists.Delete(ctx, id)
}

// Get returns the list when it is published, or when the viewer is staff.
func (s *WeeklyListService) Get(ctx context.Context, id int64, viewer *domain.User) (*domain.WeeklyList, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !list.Published && (viewer == nil || !viewer.Role.AtLeast(domain.RoleModerator)) {
		return nil, domain.ErrNotFound
	}
	return list, nil
}

// GetByWeek resolves a list by its ISO week with the same visibility rule.
func (s *WeeklyListService) GetByWeek(ctx context.Context, week string, viewer *domain.User) (*domain.WeeklyList, error) {
	list, err := s.lists.GetByWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	if !list.Published && (viewer == nil || !viewer.Role.AtLeast(domain.RoleModerator)) {
		return nil, domain.ErrNotFound
	}
	return list, nil
}

// GetByShareToken grants unlisted access regardless of publication state.
func (s *WeeklyListService) GetByShareToken(ctx context.Context, token string) (*domain.WeeklyList, error) {
	return s.lists.GetByShareToken(ctx, token)
}

// List returns published lists for regular viewers and all lists for staff.
func (s *WeeklyListService) List(ctx context.Context, viewer *domain.User) ([]*domain.WeeklyList, error) {
	publishedOnly := viewer == nil || !viewer.Role.AtLeast(domain.RoleModerator)
	return s.lists.List(ctx, publishedOnly)
}

func (s *WeeklyListService) AddMovie(ctx context.Context, listID, movieID int64, position int) error {
	if _, err := s.lists.GetByID(ctx, listID); err != nil {
		return fmt.Errorf("get list: %w", err)
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return fmt.Errorf("get movie: %w", err)
	}
	return s.lists.AddMovie(ctx, listID, movieID, position)
}

func (s *WeeklyListService) RemoveMovie(ctx context.Context, listID, movieID int64) error {
	return s.lists.RemoveMovie(ctx, listID, movieID)
}

func (s *WeeklyListService) Movies(ctx context.Context, listID int64) ([]*domain.Movie, error) {
	return s.lists.ListMovies(ctx, listID)
}
