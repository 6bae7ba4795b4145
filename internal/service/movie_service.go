package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"movieclub/internal/domain"
)

// MovieService provides catalog operations. Create/Update/Delete are
// admin-only, enforced at the route layer.
type MovieService struct {
	movies   domain.MovieRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewMovieService(movies domain.MovieRepository, validate *validator.Validate, log zerolog.Logger) *MovieService {
	return &MovieService{movies: movies, validate: validate, log: log}
}

type MovieInput struct {
	TmdbID    int64   `validate:"required,gt=0"`
	Title     string  `validate:"required,max=255"`
	Year      int     `validate:"gte=0,lte=2100"`
	Overview  *string `validate:"omitempty,max=5000"`
	PosterURL *string `validate:"omitempty,url,max=500"`
}

func (s *MovieService) Create(ctx context.Context, in MovieInput) (*domain.Movie, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err.Error())
	}

	movie := &domain.Movie{
		TmdbID:    in.TmdbID,
		Title:     in.Title,
		Year:      in.Year,
		Overview:  in.Overview,
		PosterURL: in.PosterURL,
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	s.log.Info().Int64("movie_id", movie.ID).Str("title", movie.Title).Msg("movie created")
	return movie, nil
}

func (s *MovieService) Update(ctx context.Context, id int64, in MovieInput) (*domain.Movie, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err.Error())
	}

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	movie.TmdbID = in.TmdbID
	movie.Title = in.Title
	movie.Year = in.Year
	movie.Overview = in.Overview
	movie.PosterURL = in.PosterURL

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Delete(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("movie_id", id).Msg("movie deleted")
	return nil
}

func (s *MovieService) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

func (s *MovieService) Search(ctx context.Context, query string, offset, limit int) ([]*domain.Movie, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.movies.Search(ctx, query, offset, limit)
}

// RoundedAverage rounds a stored full-precision vote average to one decimal
// place for display. The stored value is never rounded.
func RoundedAverage(avg float64) float64 {
	return math.Round(avg*10) / 10
}
